package config

// Config holds all w3raffle configuration.
type Config struct {
	DefaultNetwork string              `json:"default_network"`
	DefaultWallet  string              `json:"default_wallet"`
	RPCAlgorithm   string              `json:"rpc_algorithm"` // "fastest" | "failover"
	AddressFile    string              `json:"address_file,omitempty"` // empty = built-in table
	Confirmations  uint64              `json:"confirmations"`
	CustomRPCs     map[string][]string `json:"custom_rpcs"`

	// internal: config dir path used for Save()
	configDir string
}
