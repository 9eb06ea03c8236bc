// Package notify delivers LINE Notify messages to members who registered a
// personal access token.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultEndpoint = "https://notify-api.line.me/api/notify"

// fan-out bound so a large member list cannot exhaust sockets
const maxConcurrentSends = 8

type LineNotifier struct {
	client   *http.Client
	endpoint string
	logger   *slog.Logger
}

func NewLineNotifier(logger *slog.Logger) *LineNotifier {
	return &LineNotifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: defaultEndpoint,
		logger:   logger,
	}
}

// Send posts one message on behalf of one token.
func (n *LineNotifier) Send(ctx context.Context, token, message string) error {
	form := url.Values{"message": {message}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build LINE Notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call LINE Notify: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LINE Notify returned status %d", resp.StatusCode)
	}
	return nil
}

// SendToAll fans the message out to every token. Individual failures are
// logged and do not stop the remaining sends.
func (n *LineNotifier) SendToAll(ctx context.Context, tokens []string, message string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)

	for _, token := range tokens {
		token := token
		g.Go(func() error {
			if err := n.Send(ctx, token, message); err != nil {
				n.logger.Warn("LINE Notify send failed", slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
