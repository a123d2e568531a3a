// Package twitter resolves tweets into content.
//
// A tweet's video may sit in its own media, in a quoted tweet, behind a
// quoted-tweet permalink, behind a status link in the text, or inside a card.
// The extractor follows these in that order, fetching further tweets as needed.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/extractor"
	"github.com/squidlr/squidlr/log"
)

// Public bearer token of the web client.
const bearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

const tweetResultQueryID = "2ICDjqPd81tulZcYrtpTuQ"

// DefaultMaxDepth bounds how many tweets are followed from the requested one.
const DefaultMaxDepth = 5

const features = `{"creator_subscriptions_tweet_preview_api_enabled":true,"communities_web_enable_tweet_community_results_fetch":true,"c9s_tweet_anatomy_moderator_badge_enabled":true,"articles_preview_enabled":true,"tweetypie_unmention_optimization_enabled":true,"responsive_web_edit_tweet_api_enabled":true,"graphql_is_translatable_rweb_tweet_is_translatable_enabled":true,"view_counts_everywhere_api_enabled":true,"longform_notetweets_consumption_enabled":true,"responsive_web_twitter_article_tweet_consumption_enabled":true,"tweet_awards_web_tipping_enabled":false,"creator_subscriptions_quote_tweet_preview_enabled":false,"freedom_of_speech_not_reach_fetch_enabled":true,"standardized_nudges_misinfo":true,"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled":true,"rweb_video_timestamps_enabled":true,"longform_notetweets_rich_text_read_enabled":true,"longform_notetweets_inline_media_enabled":true,"rweb_tipjar_consumption_enabled":true,"responsive_web_graphql_exclude_directive_enabled":true,"verified_phone_label_enabled":false,"responsive_web_graphql_skip_user_profile_image_extensions_enabled":false,"responsive_web_graphql_timeline_navigation_enabled":true,"responsive_web_enhance_cards_enabled":false}`

// Endpoints are the origin URLs the extractor talks to.
type Endpoints struct {
	// API is the GraphQL base, the query path is appended to it.
	API string
	// Activate is the guest token activation endpoint.
	Activate string
	// Web is the site serving tweet pages.
	Web string
}

var DefaultEndpoints = Endpoints{
	API:      "https://x.com/i/api/graphql",
	Activate: "https://api.x.com/1.1/guest/activate.json",
	Web:      "https://x.com",
}

func (e Endpoints) tweetDetail(id string) string {
	variables, _ := json.Marshal(map[string]any{
		"tweetId":                id,
		"withCommunity":          false,
		"includePromotedContent": false,
		"withVoice":              false,
	})

	params := url.Values{}
	params.Set("variables", string(variables))
	params.Set("features", features)
	return fmt.Sprintf("%s/%s/TweetResultByRestId?%s", e.API, tweetResultQueryID, params.Encode())
}

func (e Endpoints) statusPage(id string) string {
	return fmt.Sprintf("%s/i/status/%s", e.Web, id)
}

// Extractor implements provider.Extractor for Twitter/X.
type Extractor struct {
	client    *http.Client
	endpoints Endpoints
	tokens    *GuestTokens
	maxDepth  int
}

type Option func(*Extractor)

func WithEndpoints(endpoints Endpoints) Option {
	return func(x *Extractor) { x.endpoints = endpoints }
}

func WithMaxDepth(depth int) Option {
	return func(x *Extractor) {
		if depth >= 0 {
			x.maxDepth = depth
		}
	}
}

func New(client *http.Client, opts ...Option) *Extractor {
	x := &Extractor{
		client:    client,
		endpoints: DefaultEndpoints,
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(x)
	}
	x.tokens = NewGuestTokens(client, x.endpoints)
	return x
}

func (x *Extractor) Platform() content.Platform {
	return content.Twitter
}

// Extract resolves id. Videos found in quoted or linked tweets are attributed to id.
func (x *Extractor) Extract(ctx context.Context, id content.Identifier) content.Result {
	tweet := content.New(content.Twitter, id.URL).(*content.TwitterContent)

	r := &resolution{Extractor: x, out: tweet}
	if err := r.resolve(ctx, id.ID); err != nil {
		return extractor.Failed(err)
	}
	if len(tweet.Videos) == 0 {
		return content.Fail(content.NoVideo)
	}

	extractor.FillContentLengths(ctx, x.client, tweet.Videos)
	if err := ctx.Err(); err != nil {
		return extractor.Failed(err)
	}
	return content.Ok(tweet)
}

// fetchTweet loads the tweet detail document. A rejected guest token is
// replaced once before giving up.
func (x *Extractor) fetchTweet(ctx context.Context, id string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		token, err := x.tokens.Get(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("id", id).Warn("no guest token")
			return nil, content.GatewayError
		}

		header := http.Header{}
		header.Set("Authorization", "Bearer "+bearerToken)
		header.Set("X-Guest-Token", token)
		header.Set("X-Twitter-Active-User", "yes")
		header.Set("X-Twitter-Client-Language", "en")
		header.Set("Content-Type", "application/json")

		resp, err := extractor.Get(ctx, x.client, x.endpoints.tweetDetail(id), header)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.Status == http.StatusOK:
			return resp.Body, nil
		case (resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden) && attempt == 0:
			log.WithField("id", id).Debugf("guest token rejected with status %d, renewing", resp.Status)
			x.tokens.Invalidate()
		default:
			log.WithFields(log.Fields{"id": id, "status": resp.Status}).Warn("tweet detail request failed")
			return nil, extractor.StatusKind(resp.Status)
		}
	}
}
