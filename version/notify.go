package version

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/icon"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/style"
	"github.com/squidlr/squidlr/util"
)

// Notify tells w about a newer release, if there is one.
func Notify(w io.Writer) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}
	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	_, _ = fmt.Fprintf(w, `
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/squidlr/squidlr/releases/tag/v"+latest),
	)
}
