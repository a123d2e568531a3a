// Package open hands a downloaded file to the desktop's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/key"
)

// Start opens path with downloads.open_with, or the system default when unset.
// It does not wait for the application to exit.
func Start(path string) error {
	cmd, err := Command(runtime.GOOS, path, viper.GetString(key.DownloadsOpenWith))
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the launcher invocation for goos.
func Command(goos, path, app string) (*exec.Cmd, error) {
	if app != "" {
		switch goos {
		case constant.Darwin:
			return exec.Command("open", "-a", app, path), nil
		case constant.Windows:
			return exec.Command("cmd", "/C", "start", "", app, path), nil
		default:
			return exec.Command(app, path), nil
		}
	}

	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), nil
	case constant.Darwin:
		return exec.Command("open", path), nil
	case constant.Linux:
		return exec.Command("xdg-open", path), nil
	case constant.Android:
		return exec.Command("termux-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
