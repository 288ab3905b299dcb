package service

import (
	"context"
	"log/slog"
	"time"
)

// Notifier delivers out-of-band messages to users.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
	SendPasswordReset(ctx context.Context, email, link string, ttl time.Duration) error
	SendAccountLocked(ctx context.Context, email string, until time.Time) error
	SendWelcome(ctx context.Context, email, username string) error
}

// LogNotifier stands in for a mail or SMS gateway by logging each message.
// Secrets (codes and links) are only logged at debug level.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	n.Logger.InfoContext(ctx, "notification: otp", "to", email, "ttl", ttl)
	n.Logger.DebugContext(ctx, "notification: otp code", "to", email, "code", code)
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, link string, ttl time.Duration) error {
	n.Logger.InfoContext(ctx, "notification: password reset", "to", email, "ttl", ttl)
	n.Logger.DebugContext(ctx, "notification: password reset link", "to", email, "link", link)
	return nil
}

func (n *LogNotifier) SendAccountLocked(ctx context.Context, email string, until time.Time) error {
	n.Logger.InfoContext(ctx, "notification: account locked", "to", email, "locked_until", until)
	return nil
}

func (n *LogNotifier) SendWelcome(ctx context.Context, email, username string) error {
	n.Logger.InfoContext(ctx, "notification: welcome", "to", email, "username", username)
	return nil
}
