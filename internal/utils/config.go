package utils

import (
	"strings"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"
)

const EnvPrefix = "LOADREPORT"

// SetupConfigFile binds flags, LOADREPORT_* environment variables and an
// optional config file to v. A missing config file is not an error.
func SetupConfigFile(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}
