package cmd

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/icon"
	"github.com/squidlr/squidlr/resolver"
	"github.com/squidlr/squidlr/style"
)

var platformExamples = map[content.Platform]string{
	content.Twitter:   "https://x.com/{user}/status/{id}",
	content.TikTok:    "https://www.tiktok.com/@{user}/video/{id}",
	content.Instagram: "https://www.instagram.com/reel/{shortcode}/",
	content.Facebook:  "https://www.facebook.com/watch/?v={id}",
	content.LinkedIn:  "https://www.linkedin.com/posts/{slug}-activity-{id}-{suffix}",
}

func platformNames() []string {
	return lo.Map(resolver.Default().Platforms(), func(p content.Platform, _ int) string {
		return p.String()
	})
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}

var platformsCmd = &cobra.Command{
	Use:   "platforms [name]",
	Short: "List supported platforms",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return fuzzy.FindFold(toComplete, platformNames()), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		names := platformNames()
		if len(args) > 0 {
			matches := fuzzy.FindFold(args[0], names)
			if len(matches) == 0 {
				handleErr(fmt.Errorf(
					"unknown platform %s, did you mean %s?",
					style.Fg(color.Red)(args[0]),
					style.Fg(color.Yellow)(closest(args[0], names)),
				))
			}
			names = matches
		}

		for _, name := range names {
			platform := lo.Must(content.ParsePlatform(name))
			cmd.Printf("%s %s\n  %s\n",
				icon.Get(icon.Platform),
				style.Fg(color.Purple)(style.Bold(name)),
				style.Faint(platformExamples[platform]),
			)
		}
	},
}
