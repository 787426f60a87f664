package contract

// AggregatorV3Interface is the Chainlink price feed interface.
//
//	decimals()        → 0x313ce567
//	description()     → 0x7284e416
//	latestRoundData() → 0xfeaf968c
func init() {
	RegisterArtifact("AggregatorV3Interface", "Chainlink price feed (latest round data).", aggregatorV3ABI)
}

const aggregatorV3ABI = `[
  {"type":"function","name":"decimals","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"description","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"version","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"latestRoundData","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"roundId","type":"uint80"},
              {"name":"answer","type":"int256"},
              {"name":"startedAt","type":"uint256"},
              {"name":"updatedAt","type":"uint256"},
              {"name":"answeredInRound","type":"uint80"}]}
]`
