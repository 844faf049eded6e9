// Package extract sends an uploaded scoresheet to the vision model and
// recovers a JSON object from whatever text comes back.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sethvargo/go-retry"
)

// maxTextBytes caps how much of an unrecognized document is sent as
// plain text.
const maxTextBytes = 50000

// VisionClient sends one document plus prompt to the extraction model
// and returns its raw text response.
type VisionClient interface {
	Extract(ctx context.Context, mimeType string, data []byte, prompt string) (string, error)
}

// RawSink receives the raw parsed extraction response before
// normalization. Implementations must tolerate failure silently; the
// sink exists for debugging, not correctness.
type RawSink interface {
	Write(raw map[string]interface{})
}

// RetryPolicy controls the rate-limit retry behavior of an extraction
// call. MaxAttempts counts the initial attempt.
type RetryPolicy struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// DefaultRetryPolicy retries exactly once after the provider's quota
// window has had time to roll over.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, Cooldown: 42 * time.Second}

// Extractor orchestrates one extraction: prompt selection, the model
// call with retry, and best-effort JSON recovery.
type Extractor struct {
	client  VisionClient
	prompts Prompts
	policy  RetryPolicy
	sink    RawSink
}

// New creates an extractor. client may be nil when no credentials are
// configured; extraction calls then fail immediately.
func New(client VisionClient, prompts Prompts, policy RetryPolicy, sink RawSink) *Extractor {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Extractor{
		client:  client,
		prompts: prompts,
		policy:  policy,
		sink:    sink,
	}
}

// Extract runs the full pipeline over one uploaded document and returns
// the parsed (pre-normalization) response object. Unparsable model
// output degrades to an empty object; only upstream failures and
// missing credentials surface as errors.
func (e *Extractor) Extract(ctx context.Context, data []byte) (map[string]interface{}, error) {
	if e.client == nil {
		return nil, errors.New("extraction service credentials are not configured")
	}

	mime := detectMIME(data)
	prompt := e.prompts.Structured
	payload := data

	if !isStructuredType(mime) {
		// Unsupported type: send the head of the document as text.
		prompt = e.prompts.PlainText
		if len(payload) > maxTextBytes {
			payload = payload[:maxTextBytes]
		}
		mime = "text/plain"
	}

	cooldown := e.policy.Cooldown
	if cooldown <= 0 {
		cooldown = time.Nanosecond
	}
	backoff := retry.WithMaxRetries(uint64(e.policy.MaxAttempts-1), retry.NewConstant(cooldown))

	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, callErr := e.client.Extract(ctx, mime, payload, prompt)
		if callErr != nil {
			if isRateLimited(callErr) {
				return retry.RetryableError(callErr)
			}
			return callErr
		}
		text = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("extraction service: %w", err)
	}

	raw := ParseModelJSON(text)
	if e.sink != nil {
		e.sink.Write(raw)
	}
	return raw, nil
}

var (
	codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	braceSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseModelJSON recovers a JSON object from raw model output: strip a
// surrounding code fence, try a direct parse, then try the widest {...}
// span, and finally give up and return an empty object. It never fails.
func ParseModelJSON(text string) map[string]interface{} {
	s := strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err == nil && out != nil {
		return out
	}

	if span := braceSpan.FindString(s); span != "" {
		out = nil
		if err := json.Unmarshal([]byte(span), &out); err == nil && out != nil {
			return out
		}
	}

	return map[string]interface{}{}
}

// detectMIME sniffs the document type, using stdlib detection first and
// the broader mimetype library when ambiguous.
func detectMIME(head []byte) string {
	if len(head) == 0 {
		return "application/octet-stream"
	}
	mt := http.DetectContentType(head)
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt != "application/octet-stream" {
		return mt
	}
	return mimetype.Detect(head).String()
}

// isStructuredType reports whether the document gets the structured
// schema prompt (scanned sheets) rather than the plain-text fallback.
func isStructuredType(mime string) bool {
	return strings.HasPrefix(mime, "image/") || mime == "application/pdf"
}

// isRateLimited matches the provider's quota and rate-limit signals.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted")
}
