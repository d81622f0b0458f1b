package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_SendNotificationDigest(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var sent *mail.SGMailV3
		svc := &emailService{fromEmail: "noreply@clubhub.test", fromName: "ClubHub",
			send: func(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
				sent = msg
				return 202, "", nil
			}}

		err := svc.SendNotificationDigest(ctx, "dana@campus.edu", "Dana", []string{"a", "b"})
		require.NoError(t, err)
		require.NotNil(t, sent)
		assert.Equal(t, "You have 2 unread ClubHub notifications", sent.Subject)
		assert.Equal(t, "noreply@clubhub.test", sent.From.Address)
		require.Len(t, sent.Personalizations, 1)
		assert.Equal(t, "dana@campus.edu", sent.Personalizations[0].To[0].Address)
	})

	t.Run("ProviderRejects", func(t *testing.T) {
		svc := &emailService{send: func(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
			return 401, "unauthorized", nil
		}}
		err := svc.SendNotificationDigest(ctx, "dana@campus.edu", "Dana", []string{"a"})
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("TransportError", func(t *testing.T) {
		svc := &emailService{send: func(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
			return 0, "", errors.New("dial tcp: timeout")
		}}
		err := svc.SendNotificationDigest(ctx, "dana@campus.edu", "Dana", []string{"a"})
		assert.ErrorContains(t, err, "dial tcp")
	})

	t.Run("DisabledWithoutKey", func(t *testing.T) {
		svc := NewEmailService("", "noreply@clubhub.test", "ClubHub")
		assert.NoError(t, svc.SendNotificationDigest(ctx, "dana@campus.edu", "Dana", []string{"a"}))
	})
}

func TestDigestContent_EscapesHTML(t *testing.T) {
	_, plain, html := digestContent("<Eve>", []string{"Join <b>now</b> & win"})
	assert.Contains(t, plain, "- Join <b>now</b> & win")
	assert.Contains(t, html, "&lt;Eve&gt;")
	assert.Contains(t, html, "<li>Join &lt;b&gt;now&lt;/b&gt; &amp; win</li>")
}
