package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
)

// fcmSender delivers messages through the FCM HTTP endpoint.
type fcmSender struct {
	endpoint   string
	serverKey  string
	httpClient *http.Client
}

// NewFCMSender creates a production sender from the FCM configuration.
func NewFCMSender(config *platformconfig.FCMConfig) (Sender, error) {
	if config.ServerKey == "" {
		return nil, fmt.Errorf("FCM server key cannot be empty")
	}
	return &fcmSender{
		endpoint:   config.Endpoint,
		serverKey:  config.ServerKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type fcmRequest struct {
	RegistrationIDs []string        `json:"registration_ids"`
	Notification    fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *fcmSender) Send(ctx context.Context, tokens []string, message Message) error {
	if len(tokens) == 0 {
		return nil
	}

	payload, err := json.Marshal(fcmRequest{
		RegistrationIDs: tokens,
		Notification: fcmNotification{
			Title: message.Title,
			Body:  message.Body,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode FCM request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create FCM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call FCM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FCM returned status %d", resp.StatusCode)
	}

	return nil
}

// NoopSender discards every message. Used when no FCM key is configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, tokens []string, message Message) error {
	return nil
}
