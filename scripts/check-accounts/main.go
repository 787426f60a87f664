// check-accounts: reads the ETH balance and the lending pool account data of
// a set of addresses across every known network in parallel and prints a
// summary table.
//
// Run from the module root:
//
//	go run ./scripts/check-accounts 0xYourAddress [0xAnother ...]
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const rpcTimeout = 12 * time.Second

type result struct {
	network    string
	account    string // short form
	balance    string
	collateral string
	debt       string
	health     string
	err        string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: check-accounts <address> [address ...]")
		os.Exit(2)
	}
	var accounts []common.Address
	for _, a := range os.Args[1:] {
		if !common.IsHexAddress(a) {
			fmt.Fprintf(os.Stderr, "invalid address %q\n", a)
			os.Exit(2)
		}
		accounts = append(accounts, common.HexToAddress(a))
	}

	reg := chain.NewRegistry()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	for _, n := range reg.All() {
		if len(n.RPCs) == 0 {
			continue
		}
		for _, acct := range accounts {
			wg.Add(1)
			go func(n chain.Network, acct common.Address) {
				defer wg.Done()
				r := check(n, acct)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}(n, acct)
		}
	}

	wg.Wait()

	printTable(results)
}

func check(n chain.Network, acct common.Address) result {
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	r := result{network: n.Name, account: shortAddr(acct.Hex()), balance: "-", collateral: "-", debt: "-", health: "-"}

	rpc := chain.NewEVMClient(n.RPCs[0])
	if _, _, err := rpc.Ping(ctx); err != nil {
		r.err = "unreachable"
		return r
	}

	bal, err := rpc.GetBalance(acct.Hex())
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	r.balance = ethAmount(bal)

	client := aave.NewClient(rpc, nil, n.Aave)
	pool, err := client.LendingPool(ctx)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	data, err := client.AccountData(ctx, pool, acct)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	r.collateral = fixed(data.Collateral())
	r.debt = fixed(data.Debt())
	r.health = data.HealthFactorString()
	return r
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.network != b.network {
			return a.network < b.network
		}
		return a.account < b.account
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tACCOUNT\tETH\tCOLLATERAL\tDEBT\tHEALTH\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 12))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.network, r.account, r.balance, r.collateral, r.debt, r.health, r.err)
	}
	w.Flush()
}

func fixed(d decimal.Decimal) string { return d.StringFixed(6) }

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func ethAmount(wei *big.Int) string { return aave.FromBaseUnits(wei, 18).String() }

func shortErr(err error) string {
	r := []rune(err.Error())
	if len(r) > 30 {
		return string(r[:30]) + "…"
	}
	return string(r)
}
