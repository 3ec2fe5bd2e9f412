package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/openai/openai-go"

	"github.com/lamnguyen/cvstudio/internal/retry"
)

// ClassifyErr maps a chat-completion failure onto a retry kind.
//
// Rate-limit signals (429) back off exponentially, server-side faults (5xx)
// and transport errors retry with a flat delay, and everything else
// (malformed requests, auth failures, cancelled contexts) fails immediately.
func ClassifyErr(err error) retry.Kind {
	if err == nil {
		return retry.KindFatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.KindFatal
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return retry.KindRateLimited
		case apiErr.StatusCode >= 500:
			return retry.KindTransient
		default:
			return retry.KindFatal
		}
	}

	// No API status at all: connection-level fault, likely recoverable.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return retry.KindTransient
	}

	return retry.KindFatal
}
