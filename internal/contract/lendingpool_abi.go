package contract

// Aave v2 lending pool and its addresses provider.
//
//	getLendingPool()                                  → 0x0261bf8b
//	deposit(address,uint256,address,uint16)           → 0xe8eda9df
//	borrow(address,uint256,uint256,uint16,address)    → 0xa415bcad
//	repay(address,uint256,uint256,address)            → 0x573ade81
//	getUserAccountData(address)                       → 0xbf92857c
func init() {
	RegisterArtifact("ILendingPoolAddressesProvider",
		"Aave v2 registry of protocol contract addresses.", addressesProviderABI)
	RegisterArtifact("ILendingPool",
		"Aave v2 lending pool: deposit, borrow, repay, account data.", lendingPoolABI)
}

const addressesProviderABI = `[
  {"type":"function","name":"getLendingPool","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getPriceOracle","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getMarketId","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"string"}]}
]`

const lendingPoolABI = `[
  {"type":"function","name":"deposit","stateMutability":"nonpayable",
   "inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},
             {"name":"onBehalfOf","type":"address"},{"name":"referralCode","type":"uint16"}],
   "outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable",
   "inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},
             {"name":"to","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"borrow","stateMutability":"nonpayable",
   "inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},
             {"name":"interestRateMode","type":"uint256"},{"name":"referralCode","type":"uint16"},
             {"name":"onBehalfOf","type":"address"}],
   "outputs":[]},
  {"type":"function","name":"repay","stateMutability":"nonpayable",
   "inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},
             {"name":"rateMode","type":"uint256"},{"name":"onBehalfOf","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getUserAccountData","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"totalCollateralETH","type":"uint256"},
              {"name":"totalDebtETH","type":"uint256"},
              {"name":"availableBorrowsETH","type":"uint256"},
              {"name":"currentLiquidationThreshold","type":"uint256"},
              {"name":"ltv","type":"uint256"},
              {"name":"healthFactor","type":"uint256"}]}
]`
