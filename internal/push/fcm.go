// Package push forwards notifications to mobile devices through Firebase
// Cloud Messaging.
package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var ErrQueueFull = errors.New("push queue is full")

// sender is the part of *messaging.Client the deliverer needs.
type sender interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

type Config struct {
	CredentialsFile string
	ProjectID       string
	QueueSize       int
	SendTimeout     time.Duration
}

// FCMDeliverer queues notifications and sends them from Run so a slow push
// gateway never holds up a command.
type FCMDeliverer struct {
	users   repository.UserRepository
	client  sender
	queue   chan domain.Notification
	timeout time.Duration
}

func NewFCMDeliverer(ctx context.Context, cfg Config, users repository.UserRepository) (*FCMDeliverer, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return newDeliverer(client, users, cfg), nil
}

func newDeliverer(client sender, users repository.UserRepository, cfg Config) *FCMDeliverer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &FCMDeliverer{
		users:   users,
		client:  client,
		queue:   make(chan domain.Notification, cfg.QueueSize),
		timeout: cfg.SendTimeout,
	}
}

func (d *FCMDeliverer) Name() string { return "fcm" }

// Deliver enqueues n. It never blocks; a full queue is reported as an error.
func (d *FCMDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	select {
	case d.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run sends queued notifications until ctx is canceled.
func (d *FCMDeliverer) Run(ctx context.Context) {
	log := logger.WithComponent("push")
	log.Info("Push deliverer started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Push deliverer stopped", "pending", len(d.queue))
			return
		case n := <-d.queue:
			if err := d.send(ctx, n); err != nil {
				log.Warn("Push delivery failed", "notificationID", n.ID, "userID", n.UserID, "error", err)
			}
		}
	}
}

func (d *FCMDeliverer) send(ctx context.Context, n domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	user, err := d.users.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}
	if user.DeviceToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: user.DeviceToken,
		Notification: &messaging.Notification{
			Title: "ClubHub",
			Body:  n.Message,
		},
		Data: map[string]string{
			"notification_id": n.ID,
			"created_at":      n.CreatedAt.Format(time.RFC3339),
		},
	}

	logger.ExternalServiceCall("fcm", "Send", "userID", n.UserID, "notificationID", n.ID)
	_, err = d.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "Send", err, "userID", n.UserID)
	if messaging.IsUnregistered(err) {
		user.DeviceToken = ""
		user.UpdatedAt = time.Now().UTC()
		if uerr := d.users.Update(ctx, user); uerr != nil {
			return fmt.Errorf("failed to clear stale device token: %w", uerr)
		}
		return nil
	}
	return err
}
