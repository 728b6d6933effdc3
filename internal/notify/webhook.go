package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// URLResolver returns the current webhook target. An empty string disables delivery.
type URLResolver func(ctx context.Context) (string, error)

// StaticURL resolves to a fixed url.
func StaticURL(url string) URLResolver {
	return func(context.Context) (string, error) { return url, nil }
}

// FirstURL tries each resolver in order and returns the first non-empty url.
// Resolver errors are skipped unless every resolver fails.
func FirstURL(resolvers ...URLResolver) URLResolver {
	return func(ctx context.Context) (string, error) {
		var firstErr error
		for _, r := range resolvers {
			u, err := r(ctx)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if u != "" {
				return u, nil
			}
		}
		return "", firstErr
	}
}

// Webhook posts payloads as url-encoded forms.
type Webhook struct {
	client  *http.Client
	resolve URLResolver
}

// NewWebhook returns a webhook sink. A nil client uses http.DefaultClient.
func NewWebhook(client *http.Client, resolve URLResolver) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{client: client, resolve: resolve}
}

// Name implements Sink.
func (w *Webhook) Name() string { return "webhook" }

// Send implements Sink.
func (w *Webhook) Send(ctx context.Context, p Payload) error {
	target, err := w.resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve webhook url: %w", err)
	}
	if target == "" {
		return ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(p.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
