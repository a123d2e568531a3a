package content

import (
	"fmt"
	"net/http"

	"github.com/squidlr/squidlr/constant"
)

// Kind is the closed set of outcomes of a content request.
// Every non-Success Kind is also an error.
type Kind int

const (
	Success Kind = iota
	NotFound
	NoVideo
	UnsupportedVideo
	AccountSuspended
	Protected
	AdultContent
	PlatformNotSupported
	GatewayError
	Canceled
	Error
)

type kindInfo struct {
	name      string
	detail    string
	status    int
	cacheable bool
}

var kinds = map[Kind]kindInfo{
	Success:              {"Success", "", http.StatusOK, true},
	NotFound:             {"NotFound", "The content could not be found.", http.StatusNotFound, true},
	NoVideo:              {"NoVideo", "The content does not contain a video.", http.StatusNotFound, true},
	UnsupportedVideo:     {"UnsupportedVideo", "The video format is not supported.", http.StatusNotFound, true},
	AccountSuspended:     {"AccountSuspended", "The account of the author has been suspended.", http.StatusNotFound, true},
	Protected:            {"Protected", "The content is protected and only visible to approved followers.", http.StatusNotFound, true},
	AdultContent:         {"AdultContent", "The content is age restricted.", http.StatusUnavailableForLegalReasons, true},
	PlatformNotSupported: {"PlatformNotSupported", "The platform is not supported.", http.StatusBadRequest, true},
	GatewayError:         {"GatewayError", "The platform could not be reached.", http.StatusBadGateway, false},
	Canceled:             {"Canceled", "The request was canceled.", constant.StatusClientClosed, false},
	Error:                {"Error", "An unexpected error occurred.", http.StatusInternalServerError, false},
}

func (k Kind) info() kindInfo {
	if info, ok := kinds[k]; ok {
		return info
	}
	return kinds[Error]
}

func (k Kind) String() string {
	return k.info().name
}

func (k Kind) Error() string {
	return k.info().detail
}

// Detail is a sentence suitable for a problem response.
func (k Kind) Detail() string {
	return k.info().detail
}

// Status maps the outcome to an HTTP status code.
func (k Kind) Status() int {
	return k.info().status
}

// Cacheable reports whether the outcome may be served from cache.
// Transient failures and cancellations are never cached.
func (k Kind) Cacheable() bool {
	return k.info().cacheable
}

func ParseKind(s string) (Kind, error) {
	for k, info := range kinds {
		if info.name == s {
			return k, nil
		}
	}
	return Error, fmt.Errorf("unknown result %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
