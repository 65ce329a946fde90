// Package config loads the static client configuration: which contract to
// talk to, on which chain, through which RPC endpoint.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/wrenlabs/notewire/internal/domain"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".notewire"
	envPrefix  = "NOTEWIRE"
)

// Defaults target the Fluent developer preview, where the notes contract is
// deployed.
const (
	DefaultChainID     = 20993
	DefaultChainName   = "Fluent Devnet"
	DefaultRPCURL      = "https://rpc.dev.gblend.xyz"
	DefaultCurrency    = "ETH"
	DefaultExplorerURL = "https://blockscout.dev.gblend.xyz"
)

type Config struct {
	ContractAddress string
	ChainID         uint64
	ChainName       string
	RPCURL          string
	Currency        string
	ExplorerURL     string
	KeyPath         string
}

func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("chain.id", DefaultChainID)
	cfg.SetDefault("chain.name", DefaultChainName)
	cfg.SetDefault("chain.rpc_url", DefaultRPCURL)
	cfg.SetDefault("chain.currency", DefaultCurrency)
	cfg.SetDefault("chain.explorer_url", DefaultExplorerURL)
	cfg.SetDefault("contract.address", "")
	cfg.SetDefault("wallet.key_path", filepath.Join(homeDir, configDir, "key"))

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return Config{
		ContractAddress: cfg.GetString("contract.address"),
		ChainID:         cfg.GetUint64("chain.id"),
		ChainName:       cfg.GetString("chain.name"),
		RPCURL:          cfg.GetString("chain.rpc_url"),
		Currency:        cfg.GetString("chain.currency"),
		ExplorerURL:     cfg.GetString("chain.explorer_url"),
		KeyPath:         cfg.GetString("wallet.key_path"),
	}, nil
}

// Chain returns the single supported network as a provider definition.
func (c Config) Chain() domain.ChainDefinition {
	return domain.ChainDefinition{
		ChainID:     c.ChainID,
		Name:        c.ChainName,
		RPCURL:      c.RPCURL,
		Currency:    c.Currency,
		ExplorerURL: c.ExplorerURL,
	}
}
