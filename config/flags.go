// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ConfigFlagName = "config"
	StoreFlagName  = "store"
)

func BindFlags(rootCMD *cobra.Command) {
	rootCMD.PersistentFlags().String(ConfigFlagName, "config.json", "Path to JSON configuration file, or 'env' to configure from environment variables")
	_ = viper.BindPFlag(ConfigFlagName, rootCMD.PersistentFlags().Lookup(ConfigFlagName))

	rootCMD.PersistentFlags().String(StoreFlagName, "./lvldbdata", "Path to the intent store")
	_ = viper.BindPFlag(StoreFlagName, rootCMD.PersistentFlags().Lookup(StoreFlagName))
}
