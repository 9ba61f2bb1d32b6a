package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Status is the outcome of a delivery attempt.
type Status string

const (
	Posted  Status = "posted"
	Skipped Status = "skipped"
	Failed  Status = "failed"
)

const DefaultTimeout = 10 * time.Second

const missingWebhookNotice = "❗ TEAMS_WEBHOOK_URL missing — printing output instead:"

type payload struct {
	Text string `json:"text"`
}

// Sender posts digests to a chat webhook, or prints them when no webhook
// is configured.
type Sender struct {
	url    string
	out    io.Writer
	client *http.Client
}

func New(webhookURL string, out io.Writer) *Sender {
	return &Sender{
		url:    strings.TrimSpace(webhookURL),
		out:    out,
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithClient replaces the HTTP client.
func (s *Sender) WithClient(c *http.Client) *Sender {
	s.client = c
	return s
}

// Configured reports whether a webhook URL is set.
func (s *Sender) Configured() bool {
	return s.url != ""
}

// Send delivers text. Without a webhook it prints text to the output and
// returns Skipped. A transport error or non-2xx response returns Failed.
func (s *Sender) Send(ctx context.Context, text string) (Status, error) {
	if !s.Configured() {
		fmt.Fprintf(s.out, "%s\n\n%s\n", missingWebhookNotice, text)
		return Skipped, nil
	}

	body, err := json.Marshal(payload{Text: DoubleNewlines(text)})
	if err != nil {
		return Failed, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Failed, fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Failed, fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Failed, fmt.Errorf("webhook %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return Posted, nil
}

// DoubleNewlines turns each line break into a paragraph break, which is how
// Teams renders separate lines.
func DoubleNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", "\n\n")
}
