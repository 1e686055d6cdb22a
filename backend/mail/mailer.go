package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender is the outbound mail collaborator. Dispatch failures are
// isolated by callers: a failed mail never rolls back a committed
// mutation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	APIKey  string
	BaseURL string
	From    string
	Timeout time.Duration
}

type client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a SendGrid-compatible HTTP sender.
func NewClient(cfg Config) (Sender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing mail API key")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *client) Send(ctx context.Context, msg Message) error {
	body := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": msg.To}}},
		},
		"from":    map[string]string{"email": c.cfg.From},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": "text/html", "value": msg.HTML},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail send failed: status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

type discard struct {
	log *log.Logger
}

// NewDiscard returns a sender that only logs, for environments without
// mail credentials.
func NewDiscard(logger *log.Logger) Sender {
	return &discard{log: logger}
}

func (d *discard) Send(ctx context.Context, msg Message) error {
	d.log.Printf("mail (discarded): to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
