package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gradpolls/internal/adapters/kafka"
	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"gorm.io/gorm"
)

// CommunityMessagesLimit caps a single message-history fetch.
const CommunityMessagesLimit = 100

type CommunityService struct {
	repo     *postgres.CommunityRepository
	producer *kafka.Producer
}

func NewCommunityService(repo *postgres.CommunityRepository, producer *kafka.Producer) *CommunityService {
	return &CommunityService{repo: repo, producer: producer}
}

// CreateCommunity creates the (university, program) room with the creator as
// its first member. The unique pair index rejects a duplicate room atomically.
func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID uint, req *models.CreateCommunityRequest) (*models.CommunityResponse, error) {
	university := strings.TrimSpace(req.University)
	program := strings.TrimSpace(req.Program)
	if university == "" || program == "" {
		return nil, ErrInvalidRequest
	}

	community := models.Community{
		Name:        fmt.Sprintf("%s - %s", university, program),
		University:  university,
		Program:     program,
		Description: req.Description,
		CreatedByID: creatorID,
	}
	if err := s.repo.CreateWithCreator(&community); err != nil {
		if errors.Is(err, postgres.ErrDuplicateKey) {
			return nil, ErrDuplicateCommunity
		}
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	s.producer.Publish(ctx, strconv.FormatUint(uint64(community.ID), 10), map[string]any{
		"type":         "community.created",
		"community_id": community.ID,
		"university":   university,
		"program":      program,
	})

	return s.communityResponse(&community, creatorID)
}

func (s *CommunityService) GetCommunity(viewerID, communityID uint) (*models.CommunityResponse, error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load community: %w", err)
	}
	return s.communityResponse(community, viewerID)
}

// ListCommunities returns rooms matching the optional search against
// university or program names.
func (s *CommunityService) ListCommunities(viewerID uint, search string) ([]models.CommunityResponse, error) {
	communities, err := s.repo.List(strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	responses := make([]models.CommunityResponse, 0, len(communities))
	for i := range communities {
		resp, err := s.communityResponse(&communities[i], viewerID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// Join is idempotent; joining twice leaves one membership row.
func (s *CommunityService) Join(userID, communityID uint) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load community: %w", err)
	}
	if err := s.repo.AddMember(userID, communityID); err != nil {
		return fmt.Errorf("failed to join community: %w", err)
	}
	return nil
}

// PostMessage appends to the community's message board. Members only.
func (s *CommunityService) PostMessage(userID, communityID uint, req *models.CommunityMessageRequest) (*models.CommunityMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	member, err := s.repo.IsMember(userID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrUnauthorized
	}

	message := models.CommunityMessage{
		Content:     content,
		UserID:      userID,
		CommunityID: communityID,
	}
	if err := s.repo.CreateMessage(&message); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return &models.CommunityMessageResponse{
		ID:        message.ID,
		Content:   message.Content,
		AuthorID:  userID,
		CreatedAt: message.CreatedAt,
	}, nil
}

func (s *CommunityService) ListMessages(userID, communityID uint) ([]models.CommunityMessageResponse, error) {
	member, err := s.repo.IsMember(userID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrUnauthorized
	}
	messages, err := s.repo.ListMessages(communityID, CommunityMessagesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	responses := make([]models.CommunityMessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = models.CommunityMessageResponse{
			ID:        m.ID,
			Content:   m.Content,
			Author:    m.Author.Username,
			AuthorID:  m.UserID,
			CreatedAt: m.CreatedAt,
		}
	}
	return responses, nil
}

// Pin reports pinned on first call and already_pinned after; Unpin mirrors
// with unpinned / not_pinned. Neither is an error.
func (s *CommunityService) Pin(userID, communityID uint) (*models.PinResponse, error) {
	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load community: %w", err)
	}
	created, err := s.repo.Pin(userID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to pin community: %w", err)
	}
	if created {
		return &models.PinResponse{Status: models.PinStatusPinned}, nil
	}
	return &models.PinResponse{Status: models.PinStatusAlreadyPinned}, nil
}

func (s *CommunityService) Unpin(userID, communityID uint) (*models.PinResponse, error) {
	removed, err := s.repo.Unpin(userID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to unpin community: %w", err)
	}
	if removed {
		return &models.PinResponse{Status: models.PinStatusUnpinned}, nil
	}
	return &models.PinResponse{Status: models.PinStatusNotPinned}, nil
}

func (s *CommunityService) ListPinned(userID uint) ([]models.CommunityResponse, error) {
	communities, err := s.repo.ListPinned(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned communities: %w", err)
	}
	responses := make([]models.CommunityResponse, 0, len(communities))
	for i := range communities {
		resp, err := s.communityResponse(&communities[i], userID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *CommunityService) communityResponse(c *models.Community, viewerID uint) (*models.CommunityResponse, error) {
	members, err := s.repo.CountMembers(c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	isMember, err := s.repo.IsMember(viewerID, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return &models.CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		University:  c.University,
		Program:     c.Program,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		Members:     members,
		IsMember:    isMember,
	}, nil
}
