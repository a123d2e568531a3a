package twitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buger/jsonparser"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/extractor"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/resolver"
	"github.com/squidlr/squidlr/util"
)

// resolution is the state of one Extract call. Videos of every tweet visited
// are collected into out, scalars come from the requested tweet only.
type resolution struct {
	*Extractor
	out  *content.TwitterContent
	path util.Stack[string]
}

func (r *resolution) resolve(ctx context.Context, id string) error {
	if r.path.Len() > r.maxDepth || r.path.Contains(id) {
		log.WithFields(log.Fields{"id": id, "depth": r.path.Len()}).Debug("tweet chain too deep or cyclic")
		return content.NoVideo
	}
	r.path.Push(id)
	defer r.path.Pop()

	doc, err := r.fetchTweet(ctx, id)
	if err != nil {
		return err
	}

	tweet, err := tweetResult(doc)
	if err != nil {
		return err
	}

	if restID, _ := jsonparser.GetString(tweet, "rest_id"); restID != id {
		log.WithFields(log.Fields{"id": id, "rest_id": restID}).Error("tweet detail answered for another tweet")
		return content.Error
	}

	if r.path.Len() == 1 {
		r.fillScalars(tweet)
	}

	return r.extractVideos(ctx, id, tweet)
}

// tweetResult locates the tweet object and applies the availability checks.
func tweetResult(doc []byte) ([]byte, error) {
	result, _, _, err := jsonparser.Get(doc, "data", "tweetResult", "result")
	if err != nil {
		return nil, content.NotFound
	}
	result = unwrap(result)

	if reason, err := jsonparser.GetString(result, "reason"); err == nil {
		return nil, reasonKind(reason)
	}

	typename, _ := jsonparser.GetString(result, "__typename")
	if typename == "TweetTombstone" {
		return nil, content.NotFound
	}
	return result, nil
}

// unwrap strips the TweetWithVisibilityResults envelope.
func unwrap(result []byte) []byte {
	if typename, _ := jsonparser.GetString(result, "__typename"); typename == "TweetWithVisibilityResults" {
		if inner, _, _, err := jsonparser.Get(result, "tweet"); err == nil {
			return inner
		}
	}
	return result
}

func reasonKind(reason string) content.Kind {
	switch reason {
	case "Suspended":
		return content.AccountSuspended
	case "NsfwLoggedOut":
		return content.AdultContent
	case "Protected":
		return content.Protected
	default:
		log.WithField("reason", reason).Warn("unknown tweet unavailability reason")
		return content.Error
	}
}

func (r *resolution) fillScalars(tweet []byte) {
	out := r.out

	legacy, _, _, _ := jsonparser.Get(tweet, "legacy")
	out.FullText, _ = jsonparser.GetString(legacy, "full_text")
	if raw, err := jsonparser.GetString(legacy, "created_at"); err == nil {
		if t, err := time.Parse(time.RubyDate, raw); err == nil {
			out.CreatedAt = t
		} else {
			log.WithError(err).WithField("created_at", raw).Warn("unexpected tweet timestamp")
		}
	}
	out.FavoriteCount, _ = jsonparser.GetInt(legacy, "favorite_count")
	out.ReplyCount, _ = jsonparser.GetInt(legacy, "reply_count")
	out.RetweetCount, _ = jsonparser.GetInt(legacy, "retweet_count")
	out.QuoteCount, _ = jsonparser.GetInt(legacy, "quote_count")
	out.BookmarkCount, _ = jsonparser.GetInt(legacy, "bookmark_count")

	user, _, _, _ := jsonparser.Get(tweet, "core", "user_results", "result")
	out.Username = firstString(user, []string{"legacy", "screen_name"}, []string{"core", "screen_name"})
	out.FullName = firstString(user, []string{"legacy", "name"}, []string{"core", "name"})
	out.ProfileImageURL = firstString(user, []string{"legacy", "profile_image_url_https"}, []string{"avatar", "image_url"})
}

func firstString(data []byte, paths ...[]string) string {
	for _, path := range paths {
		if s, err := jsonparser.GetString(data, path...); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// extractVideos tries the video locations in priority order and stops at the first that applies.
func (r *resolution) extractVideos(ctx context.Context, id string, tweet []byte) error {
	if media, _, _, err := jsonparser.Get(tweet, "legacy", "extended_entities", "media"); err == nil {
		if videos := parseMediaArray(media); len(videos) > 0 {
			r.out.Videos = append(r.out.Videos, videos...)
			return nil
		}
	}

	if quoted, _, _, err := jsonparser.Get(tweet, "quoted_status_result", "result"); err == nil {
		quoted = unwrap(quoted)
		if media, _, _, err := jsonparser.Get(quoted, "legacy", "extended_entities", "media"); err == nil {
			if videos := parseMediaArray(media); len(videos) > 0 {
				r.out.Videos = append(r.out.Videos, videos...)
				return nil
			}
		}
	}

	if permalink, err := jsonparser.GetString(tweet, "legacy", "quoted_status_permalink", "expanded"); err == nil {
		if quoted, ok := resolver.TwitterMatcher.Match(permalink); ok && quoted.ID != id {
			return r.resolve(ctx, quoted.ID)
		}
	}

	if linked, ok := linkedStatus(tweet, id); ok {
		return r.resolve(ctx, linked)
	}

	if card, _, _, err := jsonparser.Get(tweet, "card", "legacy"); err == nil {
		return r.extractCard(ctx, id, card)
	}

	return content.NoVideo
}

// linkedStatus finds the first link in the text pointing at another tweet.
func linkedStatus(tweet []byte, self string) (string, bool) {
	var linked string
	_, _ = jsonparser.ArrayEach(tweet, func(entry []byte, _ jsonparser.ValueType, _ int, _ error) {
		if linked != "" {
			return
		}
		expanded, _ := jsonparser.GetString(entry, "expanded_url")
		if identifier, ok := resolver.TwitterMatcher.Match(expanded); ok && identifier.ID != self {
			linked = identifier.ID
		}
	}, "legacy", "entities", "urls")
	return linked, linked != ""
}

func (r *resolution) extractCard(ctx context.Context, id string, card []byte) error {
	name, _ := jsonparser.GetString(card, "name")
	typ := ClassifyCard(name)
	logger := log.WithFields(log.Fields{"id": id, "card": name, "type": typ.String()})

	if binding, ok := typ.vmapBinding(); ok {
		vmapURL := bindingString(card, binding)
		if vmapURL == "" {
			logger.Debug("card without vmap binding")
			return content.NoVideo
		}

		resp, err := extractor.Get(ctx, r.client, vmapURL, nil)
		if err != nil {
			return err
		}
		if kind := extractor.StatusKind(resp.Status); kind != content.Success {
			logger.WithField("status", resp.Status).Warn("vmap request failed")
			if kind == content.NotFound {
				return content.NoVideo
			}
			return kind
		}

		video, err := ParseVMAP(resp.Body)
		if err != nil {
			logger.WithError(err).Error("parse vmap")
			return content.Error
		}
		if len(video.Sources) == 0 {
			return content.NoVideo
		}
		video.DisplayURL = bindingImage(card, "player_image")
		r.out.Videos = append(r.out.Videos, video)
		return nil
	}

	switch typ {
	case CardUnified:
		nested := bindingString(card, "unified_card")
		if nested == "" {
			return content.NoVideo
		}
		entities, _, _, err := jsonparser.Get([]byte(nested), "media_entities")
		if err != nil {
			if errors.Is(err, jsonparser.KeyPathNotFoundError) {
				return content.NoVideo
			}
			logger.WithError(err).Error("parse unified card")
			return content.Error
		}
		r.out.Videos = append(r.out.Videos, parseMediaMap(entities)...)
		return nil
	default:
		logger.Debug("unsupported card")
		return fmt.Errorf("%w: card %q", content.UnsupportedVideo, name)
	}
}
