// Package where resolves the application's directories.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "SQUIDLR_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory.
// XDG_CONFIG_HOME is honoured on Linux, the user profile directories on Darwin and Windows.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Squidlr))
}

// Cache resolves the cache directory used by the file cache backend.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Squidlr))
}

// Logs resolves the directory daily log files are written to.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Downloads resolves the default destination of the download command.
func Downloads() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Temp()
	}
	return ensureDir(filepath.Join(home, "Downloads"))
}

// Temp resolves a volatile directory for partial downloads.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Squidlr))
}

// History resolves the file past downloads are recorded in.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the file remembered post URLs are kept in.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}
