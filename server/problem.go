package server

import (
	"encoding/json"
	"net/http"

	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/log"
)

// Problem is an RFC 9457 problem document extended with the outcome name.
type Problem struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Status int          `json:"status"`
	Result content.Kind `json:"result"`
}

func problemOf(kind content.Kind) Problem {
	status := kind.Status()
	return Problem{
		Type:   "about:blank",
		Title:  statusText(status),
		Detail: kind.Detail(),
		Status: status,
		Result: kind,
	}
}

func statusText(status int) string {
	if status == constant.StatusClientClosed {
		return "Client Closed Request"
	}
	return http.StatusText(status)
}

func writeProblem(w http.ResponseWriter, problem Problem) {
	w.Header().Set("Content-Type", constant.MediaTypeProblem)
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		log.WithError(err).Debug("write problem")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", constant.MediaTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Debug("write response")
	}
}
