package rpc

import (
	"context"
	"sync"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
)

// Benchmark pings all URLs in parallel and returns one Endpoint per URL, in
// the input order.
func Benchmark(ctx context.Context, urls []string) []Endpoint {
	endpoints := make([]Endpoint, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			latency, block, err := chain.NewEVMClient(u).Ping(ctx)
			endpoints[idx] = Endpoint{
				URL:         u,
				Latency:     latency,
				BlockNumber: block,
				Healthy:     err == nil,
			}
		}(i, url)
	}

	wg.Wait()
	return endpoints
}

// Select picks the best URL from urls. A single URL is returned without
// being pinged.
func Select(ctx context.Context, urls []string, algo Algorithm) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	winner, err := NewPicker(algo).Pick(Benchmark(ctx, urls))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
