package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/history"
	"github.com/squidlr/squidlr/icon"
	"github.com/squidlr/squidlr/style"
	"github.com/squidlr/squidlr/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Print the history as json")
	historyCmd.Flags().Bool("prune", false, "Forget downloads whose file no longer exists")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished downloads",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		downloads, err := history.Get()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("prune")) {
			downloads = lo.Filter(downloads, func(d *history.Download, _ int) bool {
				if exists, _ := filesystem.API().Exists(d.Path); exists {
					return true
				}
				handleErr(history.Remove(d))
				return false
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(downloads))
			return
		}

		if len(downloads) == 0 {
			cmd.Println(style.Faint("No downloads yet"))
			return
		}

		for _, d := range downloads {
			cmd.Printf("%s %s %s %s\n  %s\n",
				icon.Get(icon.Video),
				style.Fg(color.Purple)(d.Platform.String()),
				style.Bold(d.ID),
				style.Faint(fmt.Sprintf("%s, %s", humanize.Bytes(uint64(d.Bytes)), humanize.Time(d.Downloaded))),
				style.Fg(color.Green)(d.Path),
			)
		}
		cmd.Println(style.Faint(util.Quantify(len(downloads), "download", "downloads")))
	},
}
