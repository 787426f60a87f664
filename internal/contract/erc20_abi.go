package contract

// IERC20 is the subset of EIP-20 the borrow workflow and its helpers use.
//
// Function selectors:
//
//	balanceOf(address)        → 0x70a08231
//	allowance(address,address) → 0xdd62ed3e
//	approve(address,uint256)  → 0x095ea7b3
//	decimals()                → 0x313ce567
//	symbol()                  → 0x95d89b41
func init() {
	RegisterArtifact("IERC20", "Standard ERC-20 token interface (EIP-20).", erc20ABI)
}

const erc20ABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"decimals","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"symbol","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"event","name":"Approval","anonymous":false,
   "inputs":[{"name":"owner","type":"address","indexed":true},
             {"name":"spender","type":"address","indexed":true},
             {"name":"value","type":"uint256","indexed":false}]}
]`
