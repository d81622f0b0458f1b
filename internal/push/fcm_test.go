package push

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/repository/memory"
	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return "", f.err
	}
	return "projects/clubhub/messages/1", nil
}

func (f *fakeSender) messages() []*messaging.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*messaging.Message(nil), f.sent...)
}

func TestFCMDeliverer_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "u1", Email: "u1@campus.edu", DeviceToken: "tok-1"}))
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "u2", Email: "u2@campus.edu"}))

	fake := &fakeSender{}
	d := newDeliverer(fake, store.Users(), Config{})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		d.Run(runCtx)
		close(done)
	}()

	require.NoError(t, d.Deliver(ctx, domain.Notification{ID: "n1", UserID: "u1", Message: "You have joined Chess"}))
	require.NoError(t, d.Deliver(ctx, domain.Notification{ID: "n2", UserID: "u2", Message: "no device"}))
	require.NoError(t, d.Deliver(ctx, domain.Notification{ID: "n3", UserID: "ghost", Message: "unknown"}))

	require.Eventually(t, func() bool { return len(d.queue) == 0 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	sent := fake.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "tok-1", sent[0].Token)
	assert.Equal(t, "You have joined Chess", sent[0].Notification.Body)
	assert.Equal(t, "n1", sent[0].Data["notification_id"])
}

func TestFCMDeliverer_QueueFull(t *testing.T) {
	d := newDeliverer(&fakeSender{}, memory.NewStore().Users(), Config{QueueSize: 1})
	ctx := context.Background()

	require.NoError(t, d.Deliver(ctx, domain.Notification{ID: "n1"}))
	assert.ErrorIs(t, d.Deliver(ctx, domain.Notification{ID: "n2"}), ErrQueueFull)
	assert.Equal(t, "fcm", d.Name())
}

func TestFCMDeliverer_SendError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(ctx, &domain.User{ID: "u1", Email: "u1@campus.edu", DeviceToken: "tok-1"}))

	fake := &fakeSender{err: errors.New("gateway unavailable")}
	d := newDeliverer(fake, store.Users(), Config{})

	err := d.send(ctx, domain.Notification{ID: "n1", UserID: "u1", Message: "hi"})
	assert.EqualError(t, err, "gateway unavailable")

	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", user.DeviceToken)
}
