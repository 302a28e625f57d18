package config

// AuthConfig configures the login SDK
type AuthConfig struct {
	ClientID    string `yaml:"client_id"`
	PrivateKey  string `yaml:"private_key"`
	KeyFile     string `yaml:"key_file"`
	AutoConnect bool   `yaml:"auto_connect"`
	UserName    string `yaml:"user_name"`
	UserEmail   string `yaml:"user_email"`
}

// ChainConfig selects the network and the node serving it
type ChainConfig struct {
	Network   string `yaml:"network"`
	Node      string `yaml:"node"`
	Genesis   string `yaml:"genesis"`
	RPCTarget string `yaml:"rpc_target"`
	Explorer  string `yaml:"explorer"`
}

type SponsorConfig struct {
	URL string `yaml:"url"`
}

type TokenConfig struct {
	Contract string `yaml:"contract"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig holds the configuration from vewallet.yml
type AppConfig struct {
	Auth    AuthConfig    `yaml:"auth"`
	Chain   ChainConfig   `yaml:"chain"`
	Sponsor SponsorConfig `yaml:"sponsor"`
	Token   TokenConfig   `yaml:"token"`
	Server  ServerConfig  `yaml:"server"`
}

// ConfigFile is the top-level structure for vewallet.yml
type ConfigFile struct {
	Config AppConfig `yaml:"config"`
}

// TransferConfig is the [transfer] section of the tuning file
type TransferConfig struct {
	Gas               uint64 `ini:"gas"`
	GasPriceCoef      uint   `ini:"gas_price_coef"`
	Expiration        uint32 `ini:"expiration"`
	ReceiptTimeoutSec int    `ini:"receipt_timeout_sec"`
	TickIntervalMs    int    `ini:"tick_interval_ms"`
	RequestTimeoutMs  int    `ini:"request_timeout_ms"`
}

// Network is a known VeChainThor network
type Network struct {
	Name     string
	Genesis  string
	Node     string
	Explorer string
}
