package notification

import (
	"context"
	"fmt"

	userRepo "skillswap/database/repository/user"
	"skillswap/models"

	"firebase.google.com/go/v4/messaging"
)

// FCMNotifier delivers events as Firebase Cloud Messaging pushes, resolving
// the recipient's device token from their profile.
type FCMNotifier struct {
	Users  userRepo.UserRepository
	Client *messaging.Client
}

func NewFCMNotifier(users userRepo.UserRepository, client *messaging.Client) (*FCMNotifier, error) {
	if users == nil || client == nil {
		return nil, fmt.Errorf("fcm notifier initialization error: user repo or messaging client is nil")
	}
	return &FCMNotifier{Users: users, Client: client}, nil
}

func (n *FCMNotifier) Publish(ctx context.Context, event models.Event) error {
	u, err := n.Users.GetByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("Publish: could not find user %s: %w", event.UserID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("Publish: user %s has no FCM token", event.UserID)
	}

	data := event.Data
	if data == nil {
		data = map[string]string{}
	}
	data["type"] = event.Type

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: event.Title,
			Body:  event.Body,
		},
		Data: data,
	}

	if _, err := n.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("Publish: failed to send FCM message: %w", err)
	}
	return nil
}
