package config

import "time"

// Config holds all aaveborrow configuration stored in config.json.
type Config struct {
	DefaultNetwork string              `json:"default_network"`
	DefaultWallet  string              `json:"default_wallet"`
	RPCAlgorithm   string              `json:"rpc_algorithm"`   // "fastest" | "failover"
	ConfirmTimeout int                 `json:"confirm_timeout"` // seconds per confirmation wait, 0 = forever
	ArtifactsDir   string              `json:"artifacts_dir,omitempty"`
	CustomRPCs     map[string][]string `json:"custom_rpcs"`

	// internal: config dir path used for Save()
	configDir string
}

// ConfirmWait returns the confirmation timeout as a duration. Zero means no
// deadline.
func (c *Config) ConfirmWait() time.Duration {
	if c.ConfirmTimeout <= 0 {
		return 0
	}
	return time.Duration(c.ConfirmTimeout) * time.Second
}

// Env holds overrides read from the process environment and an optional .env
// file. Each variable may be given with or without the AAVEBORROW_ prefix.
type Env struct {
	Network        string        `envconfig:"NETWORK"`
	Wallet         string        `envconfig:"WALLET"`
	RPCURL         string        `envconfig:"RPC_URL"`
	PrivateKey     string        `envconfig:"PRIVATE_KEY"`
	ConfirmTimeout time.Duration `envconfig:"CONFIRM_TIMEOUT"`
}
