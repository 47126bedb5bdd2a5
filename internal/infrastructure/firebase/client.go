// Package firebase delivers push notifications through Firebase Cloud
// Messaging.
package firebase

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"trackd/internal/domain/notification"
)

// FCM rejects multicasts above 500 tokens.
const fcmBatchLimit = 500

// TokenDeactivator marks a stale FCM token inactive. Provided by the caller
// so the client stays decoupled from the token store.
type TokenDeactivator func(ctx context.Context, token string) error

type Client struct {
	fcm         *messaging.Client
	deactivator TokenDeactivator
}

var _ notification.Messenger = (*Client)(nil)

// NewClient initializes the Firebase app from a service-account credentials
// file. deactivator may be nil.
func NewClient(ctx context.Context, credentialsFile string, deactivator TokenDeactivator) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	fcm, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase messaging: %w", err)
	}

	return &Client{fcm: fcm, deactivator: deactivator}, nil
}

func buildNotification(title, body string) *messaging.Notification {
	return &messaging.Notification{Title: title, Body: body}
}

// isStaleToken reports whether the error means the token will never work
// again and should be dropped from the registry.
func isStaleToken(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

// Send delivers one notification to one device.
func (c *Client) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	_, err := c.fcm.Send(ctx, &messaging.Message{
		Token:        token,
		Notification: buildNotification(title, body),
		Data:         data,
	})
	if err != nil {
		if isStaleToken(err) {
			c.deactivate(ctx, token)
			return fmt.Errorf("stale token: %w", err)
		}
		return fmt.Errorf("sending FCM message: %w", err)
	}
	return nil
}

// SendMulticast delivers one notification to many devices, batched to the
// FCM limit. Per-token failures are handled inline and do not fail the call.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	var succeeded, failed int
	for start := 0; start < len(tokens); start += fcmBatchLimit {
		end := min(start+fcmBatchLimit, len(tokens))
		batch := tokens[start:end]

		resp, err := c.fcm.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: buildNotification(title, body),
			Data:         data,
		})
		if err != nil {
			return fmt.Errorf("sending FCM multicast: %w", err)
		}

		succeeded += resp.SuccessCount
		failed += resp.FailureCount
		if resp.FailureCount > 0 {
			c.reapFailures(ctx, batch, resp)
		}
	}

	log.Printf("FCM multicast: %d delivered, %d failed", succeeded, failed)
	return nil
}

func (c *Client) reapFailures(ctx context.Context, batch []string, resp *messaging.BatchResponse) {
	for i, r := range resp.Responses {
		switch {
		case r.Error == nil:
		case isStaleToken(r.Error):
			c.deactivate(ctx, batch[i])
		default:
			log.Printf("FCM send error: %v", r.Error)
		}
	}
}

func (c *Client) deactivate(ctx context.Context, token string) {
	if c.deactivator == nil {
		return
	}
	log.Printf("Deactivating stale FCM token %s", truncateToken(token))
	if err := c.deactivator(ctx, token); err != nil {
		log.Printf("Failed to deactivate FCM token: %v", err)
	}
}

// truncateToken keeps logs greppable without writing whole device tokens out.
func truncateToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "..."
}
