package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// MailRequest is what the mail collaborator needs to send a report.
type MailRequest struct {
	Recipient  string `json:"recipient"`
	ReportName string `json:"report_name"`
	FileName   string `json:"file_name"`
	// Content is the base64-encoded document.
	Content string `json:"content"`
}

// Mailer hands a produced document to an external delivery service.
type Mailer interface {
	Send(ctx context.Context, req MailRequest) error
}

// HTTPMailer posts MailRequests as JSON to an endpoint.
type HTTPMailer struct {
	Endpoint string
	Client   *http.Client
	// Limiter throttles sends; nil means unlimited.
	Limiter *rate.Limiter
	// Header is added to every request, e.g. an authorization token.
	Header http.Header
}

// NewHTTPMailer returns a mailer allowing perMinute sends (0 = unlimited).
func NewHTTPMailer(endpoint string, perMinute int) *HTTPMailer {
	m := &HTTPMailer{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
	if perMinute > 0 {
		m.Limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return m
}

// Send implements Mailer.
func (m *HTTPMailer) Send(ctx context.Context, req MailRequest) error {
	if m.Limiter != nil {
		if err := m.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("mail rate limit: %w", err)
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode mail request: %w", err)
	}
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	hr.Header.Set("Content-Type", "application/json")
	for k, vs := range m.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(hr)
	if err != nil {
		return fmt.Errorf("post mail request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail endpoint returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
