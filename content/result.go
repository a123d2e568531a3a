package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// Result is either a Content or the error explaining why there is none.
// Expected failures carry a Kind.
type Result = mo.Result[Content]

func Ok(c Content) Result {
	return mo.Ok(c)
}

func Fail(kind Kind) Result {
	return mo.Err[Content](kind)
}

// KindOf classifies a result. Cancellation maps to Canceled and any error
// that is not a Kind maps to Error.
func KindOf(result Result) Kind {
	if result.IsOk() {
		return Success
	}
	return KindOfError(result.Error())
}

func KindOfError(err error) Kind {
	var kind Kind
	switch {
	case err == nil:
		return Success
	case errors.As(err, &kind):
		return kind
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Canceled
	default:
		return Error
	}
}

type envelope struct {
	Result   Kind            `json:"result"`
	Platform Platform        `json:"platform,omitempty"`
	Content  json.RawMessage `json:"content,omitempty"`
}

// EncodeResult serializes a result so it can be stored in a cache.
func EncodeResult(result Result) ([]byte, error) {
	env := envelope{Result: KindOf(result)}
	if content, err := result.Get(); err == nil {
		if content == nil {
			return nil, errors.New("encode result: nil content")
		}
		raw, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("encode content: %w", err)
		}
		env.Platform = content.Common().Platform
		env.Content = raw
	}
	return json.Marshal(env)
}

// DecodeResult is the inverse of EncodeResult.
func DecodeResult(data []byte) (Result, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}

	if env.Result != Success {
		return Fail(env.Result), nil
	}

	content := New(env.Platform, "")
	if content == nil {
		return Result{}, fmt.Errorf("decode result: unknown platform %q", env.Platform)
	}
	if err := json.Unmarshal(env.Content, content); err != nil {
		return Result{}, fmt.Errorf("decode content: %w", err)
	}
	return Ok(content), nil
}
