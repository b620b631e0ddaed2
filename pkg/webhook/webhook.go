// Package webhook posts check results to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ccollicutt/outcheck/pkg/config"
	"github.com/ccollicutt/outcheck/pkg/output"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultTimeout is used when SendOptions.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxResponseBody caps how much of a response body is kept.
const maxResponseBody = 1 << 20

// EventHeader carries the payload event so receivers can route without
// decoding the body.
const EventHeader = "X-Outcheck-Event"

// Event classifies a check run.
type Event string

const (
	EventClean   Event = "check.clean"
	EventIssues  Event = "check.issues"
	EventAborted Event = "check.aborted"
)

// EventFor returns the event of a finished or aborted run.
func EventFor(report *output.Report) Event {
	switch {
	case report.Aborted():
		return EventAborted
	case report.HasIssues():
		return EventIssues
	default:
		return EventClean
	}
}

// Payload is the request body. The headline fields repeat what a receiver
// usually alerts on; Report holds the full result.
type Payload struct {
	Event       Event          `json:"event"`
	LogFile     string         `json:"log_file"`
	Dialect     string         `json:"dialect,omitempty"`
	Diagnostics int            `json:"diagnostics"`
	Sets        int            `json:"sets"`
	Abort       string         `json:"abort,omitempty"`
	Report      *output.Report `json:"report"`
}

// NewPayload builds the payload for report.
func NewPayload(report *output.Report) *Payload {
	return &Payload{
		Event:       EventFor(report),
		LogFile:     report.Metadata.LogFile,
		Dialect:     report.Metadata.Dialect,
		Diagnostics: report.Summary.Diagnostics,
		Sets:        report.Summary.Sets,
		Abort:       report.Abort,
		Report:      report,
	}
}

// ShouldSend reports whether a webhook with the given trigger fires for
// report. Aborted runs count as having issues.
func ShouldSend(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return EventFor(report) != EventClean
	}
}

// Client sends check results to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // DefaultTimeout if zero
}

// Response is the outcome of one delivery.
type Response struct {
	Event      Event
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was delivered with a 2xx status.
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts the payload of report to opts.URL.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	payload := NewPayload(report)
	resp := &Response{Event: payload.Event}
	done := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return done(fmt.Errorf("encoding payload: %w", err))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return done(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "outcheck-webhook")
	req.Header.Set(EventHeader, string(payload.Event))
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return done(fmt.Errorf("posting to %s: %w", opts.URL, err))
	}
	defer httpResp.Body.Close()

	resp.StatusCode = httpResp.StatusCode
	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return done(fmt.Errorf("reading response: %w", err))
	}
	resp.Body = string(data)

	if resp.StatusCode >= 400 {
		return done(fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
	return done(nil)
}
