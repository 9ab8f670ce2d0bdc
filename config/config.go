// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/sprintertech/intent-ledger/ledger"
)

type Config struct {
	LedgerConfig LedgerConfig `mapstructure:"ledger"`
}

type LedgerConfig struct {
	Id       string `mapstructure:"id"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"logLevel" default:"info"`

	ApiAddr    string `mapstructure:"apiAddr" default:":8080"`
	HealthPort uint16 `mapstructure:"healthPort" default:"9001"`

	ChainId       uint64 `mapstructure:"chainId" default:"1"`
	LedgerAddress string `mapstructure:"ledgerAddress"`
	Admin         string `mapstructure:"admin"`
	Vault         string `mapstructure:"vault"`
	FeeRateBps    uint64 `mapstructure:"feeRateBps" default:"0"`

	StorePath string `mapstructure:"storePath"`
	NatsURL   string `mapstructure:"natsUrl"`
	// seconds between garbage collection sweeps; 0 disables the job
	GCInterval uint64 `mapstructure:"gcInterval" default:"3600"`
}

func (c *LedgerConfig) Validate() error {
	if !common.IsHexAddress(c.LedgerAddress) {
		return fmt.Errorf("required field ledger.LedgerAddress invalid: %s", c.LedgerAddress)
	}
	if !common.IsHexAddress(c.Admin) {
		return fmt.Errorf("required field ledger.Admin invalid: %s", c.Admin)
	}
	if !common.IsHexAddress(c.Vault) {
		return fmt.Errorf("required field ledger.Vault invalid: %s", c.Vault)
	}
	if c.FeeRateBps > ledger.FeeDenominator {
		return fmt.Errorf("field ledger.FeeRateBps exceeds %d: %d", ledger.FeeDenominator, c.FeeRateBps)
	}
	return nil
}

// GetConfigFromFile reads the configuration from a JSON file.
func GetConfigFromFile(path string) (*Config, error) {
	config := &Config{}
	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.LedgerConfig.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetConfigFromENV reads the configuration from environment variables
// prefixed with LEDGER (LEDGER_ADMIN, LEDGER_FEERATEBPS, ...).
func GetConfigFromENV() (*Config, error) {
	config := &Config{}
	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"id", "env", "logLevel", "apiAddr", "healthPort", "chainId",
		"ledgerAddress", "admin", "vault", "feeRateBps", "storePath",
		"natsUrl", "gcInterval",
	} {
		if v.IsSet(key) {
			viper.Set("ledger."+key, v.Get(key))
		}
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.LedgerConfig.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
