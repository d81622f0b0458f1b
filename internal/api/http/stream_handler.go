package http

import (
	"net/http"
	"strings"

	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/security"
)

// StreamServer attaches an authenticated websocket to a user's live feed.
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

type StreamHandler struct {
	stream StreamServer
	tokens security.TokenManager
}

func NewStreamHandler(stream StreamServer, tokens security.TokenManager) *StreamHandler {
	return &StreamHandler{stream: stream, tokens: tokens}
}

// HandleStream authenticates with an access token from the token query
// parameter, since browsers cannot set headers on websocket handshakes, or
// from a bearer header.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		auth := r.Header.Get("Authorization")
		if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
			token = auth[7:]
		}
	}
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil || claims.Type != security.TokenTypeAccess {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	ctx := logger.WithUserID(r.Context(), claims.UserID)
	if err := h.stream.ServeWS(w, r.WithContext(ctx), claims.UserID); err != nil {
		// The upgrader has already written a response on failure.
		logger.WarnContext(ctx, "Notification stream not opened", "error", err)
	}
}
