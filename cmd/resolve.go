package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/icon"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/provider"
	"github.com/squidlr/squidlr/query"
	"github.com/squidlr/squidlr/resolver"
	"github.com/squidlr/squidlr/style"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolP("json", "j", false, "Print the identifier as json")
}

var resolveCmd = &cobra.Command{
	Use:               "resolve <url>",
	Short:             "Show which platform and post an URL points to",
	Args:              cobra.ExactArgs(1),
	Example:           "  squidlr resolve 'https://x.com/squidlr/status/1702718497123?s=20'",
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := identify(args[0])
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(id))
			return
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Platform), style.Fg(color.Purple)(id.Platform.String()))
		cmd.Printf("%s %s\n", icon.Get(icon.Link), id.URL)
		cmd.Printf("%s %s\n", style.Faint("id"), style.Bold(id.ID))
	},
}

func identify(url string) (content.Identifier, error) {
	id := resolver.Default().Resolve(url)
	if id.IsUnknown() {
		return id, fmt.Errorf("%s: %w", url, content.PlatformNotSupported)
	}
	return id, nil
}

// fetch resolves url to content through the configured provider.
func fetch(ctx context.Context, url string) (content.Identifier, content.Content, error) {
	id, err := identify(url)
	if err != nil {
		return id, nil, err
	}

	p, release, err := provider.FromConfig()
	if err != nil {
		return id, nil, err
	}
	defer release()

	c, err := p.GetContent(ctx, id).Get()
	if err != nil {
		return id, nil, fmt.Errorf("%s: %w", id, err)
	}

	if err := query.Remember(id.URL, 1); err != nil {
		log.WithError(err).Warn("could not remember url")
	}
	return id, c, nil
}

func completionURLs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}
