// Package llm is the shared Anthropic client used by the boundary filter
// (C6), section generators (C9), and summary generator (C12).
//
// Grounded directly on the teacher's internal/compact.HaikuClient: same
// retry-with-exponential-backoff loop (callWithRetry), same isRetryable
// classification of context/network/HTTP-status errors, same
// best-effort audit logging. Generalized from a single issue-summarization
// call into a general-purpose "send a prompt, get text back" client that
// every generator wraps with its own prompt and schema.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/untoldecay/commitjournal/internal/audit"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxTokens      = 2048
)

// ErrAPIKeyRequired is returned when no API key is available from config
// or environment (spec error taxonomy: AI.InvalidKey).
var ErrAPIKeyRequired = errors.New("llm: API key required")

// ErrTimeout wraps context deadline/cancellation during a call.
var ErrTimeout = errors.New("llm: call timed out")

// ErrProviderFailure wraps a non-retryable or retries-exhausted API error.
var ErrProviderFailure = errors.New("llm: provider failure")

// ErrInvalidKey wraps an API error surfaced at call time that indicates
// the key itself is rejected (401/403), as opposed to ErrAPIKeyRequired
// (no key supplied at construction) or the generic ErrProviderFailure.
// Spec error taxonomy: AI.InvalidKey fails the whole orchestration rather
// than degrading a single section.
var ErrInvalidKey = errors.New("llm: API key invalid or revoked")

// Client wraps the Anthropic API with retry/backoff and best-effort audit
// logging, mirroring HaikuClient's fields and behavior.
type Client struct {
	client         anthropic.Client
	model          anthropic.Model
	maxRetries     int
	initialBackoff time.Duration
	journalRoot    string
	auditEnabled   bool
}

// Option configures a Client at construction.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = anthropic.Model(model) }
}

// WithAudit enables best-effort audit logging to journalRoot/.audit.
func WithAudit(journalRoot string) Option {
	return func(c *Client) {
		c.journalRoot = journalRoot
		c.auditEnabled = journalRoot != ""
	}
}

// New creates a Client. apiKey is the fallback key used when the
// ANTHROPIC_API_KEY environment variable is unset, matching the teacher's
// own precedence (env wins over explicit config).
func New(apiKey string, opts ...Option) (*Client, error) {
	envKey := os.Getenv("ANTHROPIC_API_KEY")
	if envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          "claude-3-5-haiku-20241022",
		maxRetries:     defaultMaxRetries,
		initialBackoff: defaultInitialBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete sends prompt as a single user message and returns the model's
// text response, retrying retryable errors with exponential backoff.
func (c *Client) Complete(ctx context.Context, component, prompt string) (string, error) {
	start := time.Now()
	resp, callErr := c.callWithRetry(ctx, prompt)

	if c.auditEnabled {
		e := &audit.Entry{
			Kind:       "llm_call",
			Component:  component,
			Model:      string(c.model),
			Prompt:     prompt,
			Response:   resp,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if callErr != nil {
			e.Error = callErr.Error()
		}
		_, _ = audit.Append(c.journalRoot, e) // best-effort: never fail the call for an audit write failure
	}
	return resp, callErr
}

func (c *Client) callWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.initialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			if len(message.Content) > 0 {
				block := message.Content[0]
				if block.Type == "text" {
					return block.Text, nil
				}
				return "", fmt.Errorf("%w: unexpected response format (type=%s)", ErrProviderFailure, block.Type)
			}
			return "", fmt.Errorf("%w: no content blocks", ErrProviderFailure)
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		if isInvalidKey(err) {
			return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		if !isRetryable(err) {
			return "", fmt.Errorf("%w: %v", ErrProviderFailure, err)
		}
	}

	return "", fmt.Errorf("%w: failed after %d attempts: %v", ErrProviderFailure, c.maxRetries+1, lastErr)
}

// isInvalidKey reports whether err is an Anthropic API error indicating
// the key itself was rejected (revoked, malformed, or never authorized)
// rather than a transient or server-side failure.
func isInvalidKey(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// completer is the narrow surface KeyGuard wraps, matching the consumer
// interfaces internal/boundary and internal/sections declare locally.
type completer interface {
	Complete(ctx context.Context, component, prompt string) (string, error)
}

// KeyGuard wraps a completer shared across the boundary filter and
// section generators so that an ErrInvalidKey surfaced mid-orchestration —
// which each individual caller otherwise swallows into an empty section
// or a fallback (spec §4.8's "a generator failure never propagates")
// — can still be detected and escalated. Spec §7 requires AI.InvalidKey
// to fail the whole orchestration rather than degrade one section.
type KeyGuard struct {
	inner   completer
	invalid atomic.Bool
}

// NewKeyGuard wraps inner, which is typically a *Client shared by the
// boundary filter and the section generators.
func NewKeyGuard(inner completer) *KeyGuard {
	return &KeyGuard{inner: inner}
}

// Complete delegates to the wrapped completer, latching Invalid() once an
// ErrInvalidKey is observed. The latch never resets: one bad key call
// during an orchestration run is enough to condemn the whole run.
func (g *KeyGuard) Complete(ctx context.Context, component, prompt string) (string, error) {
	resp, err := g.inner.Complete(ctx, component, prompt)
	if errors.Is(err, ErrInvalidKey) {
		g.invalid.Store(true)
	}
	return resp, err
}

// Invalid reports whether any call through this guard has seen
// ErrInvalidKey.
func (g *KeyGuard) Invalid() bool {
	return g.invalid.Load()
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
