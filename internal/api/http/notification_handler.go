package http

import (
	"net/http"

	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/gorilla/mux"
)

// NotificationHandler serves the notification feed and payment chats.
type NotificationHandler struct {
	noteSvc service.NotificationService
	convSvc service.ConversationService
}

func NewNotificationHandler(noteSvc service.NotificationService, convSvc service.ConversationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc, convSvc: convSvc}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	notes, total, err := h.noteSvc.GetNotifications(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notes,
		"total_count":   total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *NotificationHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	if err := h.noteSvc.MarkSeen(r.Context(), userIDFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.convSvc.ListConversations(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (h *NotificationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	messages, total, err := h.convSvc.GetMessages(r.Context(), userIDFrom(r), mux.Vars(r)["id"], page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":    messages,
		"total_count": total,
		"page":        page,
		"page_size":   pageSize,
	})
}
