package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"signin/internal/providers"
	"signin/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	SignInPath = "/attendance/sign-in"
	KeyHeader  = "x-wechat-scheduler-key"

	defaultTimeout = 5 * time.Second
	// responses larger than this are not envelopes
	maxEnvelopeSize = 1 << 20
)

// envelope is the response body of the scheduler API.
type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

// Forwarder makes exactly one attempt to deliver a payload to the remote API.
// It never retries and never touches local state.
type Forwarder struct {
	enabled bool
	baseURL string
	key     string
	client  *http.Client
	logger  providers.Logger
}

// Timeout is the bound applied to a single forward.
func Timeout(conf *structures.Config) time.Duration {
	if conf.Remote.Timeout <= 0 {
		return defaultTimeout
	}
	return conf.Remote.Timeout
}

func NewForwarder(conf *structures.Config, logger providers.Logger) *Forwarder {
	timeout := Timeout(conf)
	return &Forwarder{
		enabled: conf.Remote.Enabled,
		baseURL: strings.TrimRight(conf.Remote.BaseURL, "/"),
		key:     conf.Remote.Key,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (f *Forwarder) Enabled() bool {
	return f.enabled
}

// Send posts payload as JSON to baseURL+path.
func (f *Forwarder) Send(ctx context.Context, path string, payload any) Outcome {
	if !f.enabled {
		f.logger.Debugf(providers.TypeSync, "Remote API disabled, skipping %s", path)
		return disabled()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return f.fail(path, fmt.Sprintf("encode payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return f.fail(path, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set(KeyHeader, f.key)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(path, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		return f.fail(path, fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return f.fail(path, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return f.fail(path, fmt.Sprintf("decode response: %v", err))
	}
	if env.Code != 0 {
		reason := env.Msg
		if reason == "" {
			reason = fmt.Sprintf("remote code %d", env.Code)
		}
		return f.fail(path, reason)
	}

	if isNull(env.Data) {
		f.logger.Infof(providers.TypeSync, "POST %s answered with remote disabled in %s", path, time.Since(start))
		return disabled()
	}
	f.logger.Infof(providers.TypeSync, "POST %s delivered in %s", path, time.Since(start))
	return delivered()
}

func (f *Forwarder) fail(path, reason string) Outcome {
	f.logger.Warnf(providers.TypeSync, "POST %s failed: %s", path, reason)
	return failed(reason)
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
