package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/invopop/jsonschema"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/icon"
	"github.com/squidlr/squidlr/style"
	"github.com/squidlr/squidlr/util"
)

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolP("json", "j", false, "Print the content as json")
	getCmd.Flags().Bool("schema", false, "Print the json schema of the content of the URL's platform instead")
	getCmd.MarkFlagsMutuallyExclusive("json", "schema")
}

var getCmd = &cobra.Command{
	Use:               "get <url>",
	Short:             "Resolve a post and list its videos",
	Args:              cobra.ExactArgs(1),
	Example:           "  squidlr get https://www.tiktok.com/@squidlr/video/7279014426373491973 --json",
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		if lo.Must(cmd.Flags().GetBool("schema")) {
			id, err := identify(args[0])
			handleErr(err)
			handleErr(printSchema(out, content.New(id.Platform, "")))
			return
		}

		done := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), args[0]))
		_, c, err := fetch(cmd.Context(), args[0])
		done()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(c))
			return
		}

		printContent(out, c)
	},
}

var (
	durationOption = reflect.TypeOf(mo.Option[time.Duration]{})
	int64Option    = reflect.TypeOf(mo.Option[int64]{})
)

func printSchema(w io.Writer, c content.Content) error {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case durationOption:
				return &jsonschema.Schema{Type: "integer", Description: "nanoseconds, null when unknown"}
			case int64Option:
				return &jsonschema.Schema{Type: "integer", Description: "null when unknown"}
			default:
				return nil
			}
		},
	}

	schema := reflector.Reflect(c)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(schema)
}

func printContent(w io.Writer, c content.Content) {
	base := c.Common()

	width := 80
	if termWidth, _, err := util.TerminalSize(); err == nil && termWidth > 20 {
		width = util.Min(termWidth, 120)
	}

	header := style.Bold("@" + base.Username)
	if !base.CreatedAt.IsZero() {
		header += " " + style.Faint(base.CreatedAt.Local().Format(time.DateTime))
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n", icon.Get(icon.Platform), style.Tag(color.White, color.Purple)(base.Platform.String()), header)

	if text := strings.TrimSpace(base.FullText); text != "" {
		_, _ = fmt.Fprintln(w, wordwrap.String(text, width))
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n\n",
		style.Faint(humanize.Comma(base.FavoriteCount)+" likes"),
		style.Faint("·"),
		style.Faint(humanize.Comma(base.ReplyCount)+" replies"),
	)

	for i, video := range base.Videos {
		title := fmt.Sprintf("%s Video %d", icon.Get(icon.Video), i)
		if d, ok := video.Duration.Get(); ok {
			title += " " + style.Faint(d.Round(time.Second).String())
		}
		_, _ = fmt.Fprintln(w, style.Bold(title))

		for j, source := range video.Sources {
			_, _ = fmt.Fprintf(w, "  [%d] %s %s %s\n      %s\n",
				j,
				source.Size,
				describeBitrate(source.Bitrate),
				describeLength(source.ContentLength),
				style.Faint(source.URL),
			)
		}
	}
}

func describeBitrate(bitrate int) string {
	if bitrate <= 0 {
		return ""
	}
	return humanize.SI(float64(bitrate), "bps")
}

func describeLength(length mo.Option[int64]) string {
	if n, ok := length.Get(); ok {
		return humanize.Bytes(uint64(n))
	}
	return "size unknown"
}
