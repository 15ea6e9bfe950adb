package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrInvalidRequest indicates the analyzer was called with neither a URL nor
// content. This is a contract error and propagates to the caller.
var ErrInvalidRequest = errors.New("either url or content must be provided")

// ErrUnavailable indicates the inference endpoint could not be reached at all
// (transport failure or timeout). The scan pipeline skips the URL and moves on.
var ErrUnavailable = errors.New("ai endpoint unavailable")
