package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/logx"
)

const (
	EnvClientID = "CLIENT_ID"
	EnvNode     = "VECHAIN_NODE"
	EnvNetwork  = "NET"
)

// LoadAppConfig reads vewallet.yml, applies env overrides and network
// presets. An empty path yields the defaults.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open config %s", path)
		}
		defer file.Close()

		var cfgFile ConfigFile
		if err := yaml.NewDecoder(file).Decode(&cfgFile); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
		cfg = &cfgFile.Config
		logx.Info("CONFIG", fmt.Sprintf("Loaded config from %s", path))
	}

	ApplyEnv(cfg)
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with CLIENT_ID, VECHAIN_NODE and NET when set.
func ApplyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvClientID)); v != "" {
		cfg.Auth.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNode)); v != "" {
		cfg.Chain.Node = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNetwork)); v != "" {
		cfg.Chain.Network = v
	}
}

func (c *AppConfig) resolve() error {
	if c.Chain.Network == "" {
		c.Chain.Network = NetworkTest
	}
	preset, known := Networks[c.Chain.Network]
	if !known && (c.Chain.Node == "" || c.Chain.Genesis == "") {
		return errors.Errorf("unknown network %q: node and genesis must be configured", c.Chain.Network)
	}
	if c.Chain.Node == "" {
		c.Chain.Node = preset.Node
	}
	if c.Chain.Genesis == "" {
		c.Chain.Genesis = preset.Genesis
	}
	if c.Chain.Explorer == "" {
		c.Chain.Explorer = preset.Explorer
	}
	if c.Token.Contract == "" {
		c.Token.Contract = DefaultTokenAddr
	}
	if c.Token.Symbol == "" {
		c.Token.Symbol = DefaultSymbol
	}
	if c.Token.Decimals == 0 {
		c.Token.Decimals = DefaultDecimals
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	return nil
}

// LoadTransferConfig reads the [transfer] section of an .ini file. Keys that
// are absent keep their defaults.
func LoadTransferConfig(path string) (*TransferConfig, error) {
	transferCfg := DefaultTransferConfig
	if path == "" {
		return &transferCfg, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	transferSection := cfg.Section("transfer")
	err = transferSection.MapTo(&transferCfg)
	if err != nil {
		return nil, err
	}
	if transferCfg.Gas == 0 {
		return nil, errors.New("transfer.gas must be > 0")
	}
	if transferCfg.GasPriceCoef > MaxGasPriceCoef {
		return nil, errors.Errorf("transfer.gas_price_coef must be <= %d", MaxGasPriceCoef)
	}
	return &transferCfg, nil
}
