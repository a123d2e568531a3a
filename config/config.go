// Package config holds the registry of squidlr settings and loads them into viper
// from defaults, SQUIDLR_ environment variables and squidlr.toml.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/where"
)

// EnvKeyReplacer maps a dotted key such as cache.backend to its env suffix CACHE_BACKEND.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads squidlr.toml from the
// config directory. A missing file is not an error.
func Setup() error {
	viper.SetConfigName(constant.Squidlr)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	// SQUIDLR_<KEY> overrides the file.
	viper.SetEnvPrefix(constant.Squidlr)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	// Defaults also fix the type viper casts file and env values to.
	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
