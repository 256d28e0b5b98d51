package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gradpolls/internal/adapters/kafka"
	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"gorm.io/gorm"
)

type MessageService struct {
	repo       *postgres.MessageRepository
	followRepo *postgres.FollowRepository
	userRepo   *postgres.UserRepository
	producer   *kafka.Producer
}

func NewMessageService(repo *postgres.MessageRepository, followRepo *postgres.FollowRepository, userRepo *postgres.UserRepository, producer *kafka.Producer) *MessageService {
	return &MessageService{repo: repo, followRepo: followRepo, userRepo: userRepo, producer: producer}
}

// Send delivers a direct message. Messaging requires a mutual follow; either
// side unfollowing closes the channel for new messages without deleting the
// history.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uint, req *models.SendMessageRequest) (*models.DirectMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if senderID == recipientID {
		return nil, ErrInvalidTarget
	}
	if _, err := s.userRepo.FindByID(recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	mutual, err := s.isMutual(senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return nil, ErrNotMutual
	}

	message := models.DirectMessage{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.repo.Create(&message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.producer.Publish(ctx, strconv.FormatUint(uint64(recipientID), 10), map[string]any{
		"type":         "message.sent",
		"sender_id":    senderID,
		"recipient_id": recipientID,
		"message_id":   message.ID,
	})

	return messageResponse(&message), nil
}

// History returns the thread with the other user, oldest first, and marks
// the other side's messages as read in the same call.
func (s *MessageService) History(userID, otherID uint) ([]models.DirectMessageResponse, error) {
	messages, err := s.repo.History(userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if err := s.repo.MarkRead(userID, otherID); err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	responses := make([]models.DirectMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *messageResponse(&messages[i])
	}
	return responses, nil
}

// Conversations lists the users the actor can message: mutual follows, with
// per-thread pin state and unread count. Pinned threads sort first, then by
// username.
func (s *MessageService) Conversations(userID uint) ([]models.ConversationResponse, error) {
	following, err := s.followRepo.ListFollowing(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	pinned, err := s.repo.PinnedSet(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pinned conversations: %w", err)
	}
	unread, err := s.repo.UnreadCounts(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	conversations := make([]models.ConversationResponse, 0, len(following))
	for _, u := range following {
		followsBack, err := s.followRepo.IsFollowing(u.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow edge: %w", err)
		}
		if !followsBack {
			continue
		}
		conversations = append(conversations, models.ConversationResponse{
			UserID:   u.ID,
			Username: u.Username,
			Pinned:   pinned[u.ID],
			Unread:   unread[u.ID],
		})
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		if conversations[i].Pinned != conversations[j].Pinned {
			return conversations[i].Pinned
		}
		return conversations[i].Username < conversations[j].Username
	})
	return conversations, nil
}

func (s *MessageService) PinConversation(userID, otherID uint) (*models.PinResponse, error) {
	if userID == otherID {
		return nil, ErrInvalidTarget
	}
	if _, err := s.userRepo.FindByID(otherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	created, err := s.repo.PinConversation(userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to pin conversation: %w", err)
	}
	if created {
		return &models.PinResponse{Status: models.PinStatusPinned}, nil
	}
	return &models.PinResponse{Status: models.PinStatusAlreadyPinned}, nil
}

func (s *MessageService) UnpinConversation(userID, otherID uint) (*models.PinResponse, error) {
	removed, err := s.repo.UnpinConversation(userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to unpin conversation: %w", err)
	}
	if removed {
		return &models.PinResponse{Status: models.PinStatusUnpinned}, nil
	}
	return &models.PinResponse{Status: models.PinStatusNotPinned}, nil
}

func (s *MessageService) isMutual(a, b uint) (bool, error) {
	forward, err := s.followRepo.IsFollowing(a, b)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	if !forward {
		return false, nil
	}
	backward, err := s.followRepo.IsFollowing(b, a)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return backward, nil
}

func messageResponse(m *models.DirectMessage) *models.DirectMessageResponse {
	return &models.DirectMessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}
