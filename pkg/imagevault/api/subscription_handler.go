package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

// SubscriptionHandler handles HTTP requests for notification subscriptions
type SubscriptionHandler struct {
	manager *imagevault.SubscriptionManager
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(manager *imagevault.SubscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{manager: manager}
}

// Routes returns the routes for subscriptions
func (h *SubscriptionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListSubscriptions)
	r.Post("/{email}", h.Subscribe)
	r.Delete("/{email}", h.Unsubscribe)

	return r
}

// ListSubscriptions returns the current topic subscriptions
func (h *SubscriptionHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.manager.ListSubscriptions(r.Context())
	if err != nil {
		slog.Error("Failed to list subscriptions", "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, subs)
}

// Subscribe binds an email address to the notification topic
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.manager.SubscribeEmail(r.Context(), email); err != nil {
		slog.Error("Failed to subscribe email", "email", email, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Email subscribed", "email", email)
	render.JSON(w, r, map[string]string{
		"message": fmt.Sprintf("subscription confirmation sent to %s", email),
	})
}

// Unsubscribe removes an email address from the notification topic
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.manager.UnsubscribeEmail(r.Context(), email); err != nil {
		slog.Error("Failed to unsubscribe email", "email", email, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Email unsubscribed", "email", email)
	render.JSON(w, r, map[string]string{
		"message": fmt.Sprintf("subscription removed for %s", email),
	})
}
