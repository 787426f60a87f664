package contract

// ENS registry and public resolver, used to resolve account names.
//
//	resolver(bytes32) → 0x0178b8bf
//	addr(bytes32)     → 0x3b3b57de
//	name(bytes32)     → 0x691f3431
func init() {
	RegisterArtifact("ENSRegistry", "ENS registry: maps a namehash to its resolver.", ensRegistryABI)
	RegisterArtifact("ENSResolver", "ENS public resolver: forward and reverse records.", ensResolverABI)
}

const ensRegistryABI = `[
  {"type":"function","name":"resolver","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"owner","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]}
]`

const ensResolverABI = `[
  {"type":"function","name":"addr","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"name","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],
   "outputs":[{"name":"","type":"string"}]}
]`
