package service

import (
	"context"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkSeen(ctx context.Context, userID, notificationID string) error {
	return s.noteRepo.MarkSeen(ctx, notificationID, userID)
}

type conversationService struct {
	convRepo repository.ConversationRepository
}

func NewConversationService(convRepo repository.ConversationRepository) ConversationService {
	return &conversationService{convRepo: convRepo}
}

func (s *conversationService) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.convRepo.ListByUser(ctx, userID)
}

// GetMessages refuses to page through a thread the caller is not part
// of; the conversation id itself names its two members.
func (s *conversationService) GetMessages(ctx context.Context, userID, conversationID string, page, pageSize int32) ([]domain.Message, int32, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	var member bool
	for _, c := range convs {
		if c.ID == conversationID {
			member = true
			break
		}
	}
	if !member {
		return nil, 0, domain.ErrNotFound
	}
	offset := (page - 1) * pageSize
	return s.convRepo.ListMessages(ctx, conversationID, pageSize, offset)
}
