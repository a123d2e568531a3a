package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/history"
	"github.com/squidlr/squidlr/icon"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/network"
	"github.com/squidlr/squidlr/open"
	"github.com/squidlr/squidlr/server"
	"github.com/squidlr/squidlr/stream"
	"github.com/squidlr/squidlr/style"
	"github.com/squidlr/squidlr/util"
	"github.com/squidlr/squidlr/where"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().IntP("video", "v", 0, "Index of the video in the post")
	downloadCmd.Flags().IntP("source", "s", 0, "Index of the source within the video")
	downloadCmd.Flags().StringP("output", "o", "", "File to write to. Defaults to the downloads directory")
	downloadCmd.Flags().Bool("open", false, "Open the file once it is saved")
}

var downloadCmd = &cobra.Command{
	Use:               "download <url>",
	Aliases:           []string{"dl"},
	Short:             "Download a video of a post",
	Args:              cobra.ExactArgs(1),
	Example:           "  squidlr download https://www.instagram.com/reel/CxOtJ8qNFdN/ -o reel.mp4",
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		done := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), args[0]))
		id, c, err := fetch(cmd.Context(), args[0])
		done()
		handleErr(err)

		base := c.Common()
		videoIndex := lo.Must(cmd.Flags().GetInt("video"))
		if !cmd.Flags().Changed("video") && len(base.Videos) > 1 {
			videoIndex, err = pick("Video", lo.Map(base.Videos, func(v content.Video, i int) string {
				return describeVideo(i, v)
			}))
			handleErr(err)
		}
		video, ok := base.Video(videoIndex)
		if !ok {
			handleErr(fmt.Errorf("video %d: %w", videoIndex, content.NotFound))
		}

		sourceIndex := lo.Must(cmd.Flags().GetInt("source"))
		if !cmd.Flags().Changed("source") && len(video.Sources) > 1 {
			sourceIndex, err = pick("Source", lo.Map(video.Sources, func(s content.VideoSource, i int) string {
				return fmt.Sprintf("[%d] %s %s %s", i, s.Size, describeBitrate(s.Bitrate), describeLength(s.ContentLength))
			}))
			handleErr(err)
		}
		source, ok := video.Source(sourceIndex)
		if !ok {
			handleErr(fmt.Errorf("source %d: %w", sourceIndex, content.NotFound))
		}

		output := lo.Must(cmd.Flags().GetString("output"))
		if output == "" {
			output = filepath.Join(where.Downloads(), server.FileName(id))
		}

		n, err := save(cmd.Context(), source, output)
		handleErr(err)

		cmd.Printf("%s Saved %s to %s\n",
			icon.Get(icon.Success),
			humanize.Bytes(uint64(n)),
			style.Fg(color.Green)(output),
		)

		if viper.GetBool(key.DownloadsHistory) {
			err := history.Save(history.Download{
				Platform: id.Platform,
				ID:       id.ID,
				URL:      id.URL,
				Video:    videoIndex,
				Source:   sourceIndex,
				Path:     output,
				Bytes:    n,
			})
			if err != nil {
				log.WithError(err).Warn("could not record download")
			}
		}

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(output))
		}
	},
}

// save writes next to output first so an interrupted download never
// leaves a truncated file under the final name.
func save(ctx context.Context, source content.VideoSource, output string) (int64, error) {
	fs := filesystem.API()
	partial := output + ".part"

	file, err := fs.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.ModePerm)
	if err != nil {
		return 0, err
	}

	progress := &progressWriter{total: source.ContentLength.OrEmpty()}
	n, err := stream.FromConfig(network.Client).Download(ctx, source.URL, io.MultiWriter(file, progress))
	progress.erase()
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fs.Remove(partial)
		return n, err
	}

	return n, fs.Rename(partial, output)
}

func describeVideo(i int, v content.Video) string {
	s := fmt.Sprintf("[%d] %s", i, util.Quantify(len(v.Sources), "source", "sources"))
	if d, ok := v.Duration.Get(); ok {
		s += " " + d.Round(time.Second).String()
	}
	return s
}

func pick(message string, options []string) (int, error) {
	var index int
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	err := survey.AskOne(prompt, &index)
	return index, err
}

// progressWriter redraws a single status line at most every 100ms.
type progressWriter struct {
	total   int64
	written int64
	last    time.Time
	eraser  func()
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if time.Since(p.last) < 100*time.Millisecond {
		return len(b), nil
	}
	p.last = time.Now()
	p.erase()

	msg := fmt.Sprintf("%s Downloading %s", icon.Get(icon.Progress), humanize.Bytes(uint64(p.written)))
	if p.total > 0 {
		msg += fmt.Sprintf(" / %s", humanize.Bytes(uint64(p.total)))
	}
	p.eraser = util.PrintErasable(msg)
	return len(b), nil
}

func (p *progressWriter) erase() {
	if p.eraser != nil {
		p.eraser()
		p.eraser = nil
	}
}
