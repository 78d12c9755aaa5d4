package push

import (
	"context"
	"fmt"

	"github.com/SkAltmash/ZapSplit/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Sender delivers a push notification to one device token.
type Sender interface {
	Send(ctx context.Context, token, title, body string) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender builds a sender backed by Firebase Cloud Messaging.
func NewFCMSender(ctx context.Context, credentialsFile string) (Sender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, token, title, body string) error {
	logger.ExternalServiceCall("fcm", "send", "title", title)
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	logger.ExternalServiceResult("fcm", "send", err)
	return err
}

// NopSender is used when push delivery is not configured.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, token, title, body string) error {
	return nil
}
