package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gradpolls/internal/adapters/kafka"
	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"gorm.io/gorm"
)

type FollowService struct {
	repo     *postgres.FollowRepository
	userRepo *postgres.UserRepository
	producer *kafka.Producer
}

func NewFollowService(repo *postgres.FollowRepository, userRepo *postgres.UserRepository, producer *kafka.Producer) *FollowService {
	return &FollowService{repo: repo, userRepo: userRepo, producer: producer}
}

// Follow moves the follower->target relationship forward one step. A public
// target gets the edge immediately; a private target gets a pending request
// instead. Repeating either step is a no-op that reports the current state.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) (*models.FollowActionResponse, error) {
	if followerID == targetID {
		return nil, ErrInvalidTarget
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	following, err := s.repo.IsFollowing(followerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow edge: %w", err)
	}
	if following {
		return &models.FollowActionResponse{State: models.FollowStateFollowing}, nil
	}

	if !target.IsPrivate {
		if err := s.repo.CreateFollow(followerID, targetID); err != nil {
			return nil, fmt.Errorf("failed to create follow: %w", err)
		}
		return &models.FollowActionResponse{State: models.FollowStateFollowing}, nil
	}

	if err := s.repo.CreateRequest(followerID, targetID); err != nil {
		if errors.Is(err, postgres.ErrDuplicateKey) {
			return &models.FollowActionResponse{State: models.FollowStatePending}, nil
		}
		return nil, fmt.Errorf("failed to create follow request: %w", err)
	}
	return &models.FollowActionResponse{State: models.FollowStatePending}, nil
}

// Unfollow removes the edge, or withdraws the pending request if no edge
// exists yet. Both paths end in the same state, so neither reports an error
// when there is nothing to remove.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) (*models.FollowActionResponse, error) {
	if followerID == targetID {
		return nil, ErrInvalidTarget
	}

	if err := s.repo.DeleteFollow(followerID, targetID); err != nil {
		return nil, fmt.Errorf("failed to delete follow: %w", err)
	}
	if err := s.repo.RejectRequest(targetID, followerID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to withdraw follow request: %w", err)
	}
	return &models.FollowActionResponse{State: models.FollowStateNone}, nil
}

// AcceptRequest is called by the requested account's owner.
func (s *FollowService) AcceptRequest(ctx context.Context, ownerID, requesterID uint) error {
	if err := s.repo.AcceptRequest(ownerID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to accept follow request: %w", err)
	}

	s.producer.Publish(ctx, strconv.FormatUint(uint64(ownerID), 10), map[string]any{
		"type":         "follow.accepted",
		"owner_id":     ownerID,
		"requester_id": requesterID,
	})
	return nil
}

func (s *FollowService) RejectRequest(ctx context.Context, ownerID, requesterID uint) error {
	if err := s.repo.RejectRequest(ownerID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to reject follow request: %w", err)
	}
	return nil
}

// State reports the viewer's relationship to the target without mutating it.
func (s *FollowService) State(followerID, targetID uint) (models.FollowState, error) {
	following, err := s.repo.IsFollowing(followerID, targetID)
	if err != nil {
		return "", fmt.Errorf("failed to check follow edge: %w", err)
	}
	if following {
		return models.FollowStateFollowing, nil
	}
	pending, err := s.repo.HasPendingRequest(followerID, targetID)
	if err != nil {
		return "", fmt.Errorf("failed to check follow request: %w", err)
	}
	if pending {
		return models.FollowStatePending, nil
	}
	return models.FollowStateNone, nil
}

func (s *FollowService) ListReceivedRequests(userID uint) ([]models.FollowRequestResponse, error) {
	requests, err := s.repo.ListReceivedRequests(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow requests: %w", err)
	}
	responses := make([]models.FollowRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = models.FollowRequestResponse{
			UserID:    req.RequesterID,
			Username:  req.Requester.Username,
			CreatedAt: req.CreatedAt,
		}
	}
	return responses, nil
}

func (s *FollowService) ListSentRequests(userID uint) ([]models.FollowRequestResponse, error) {
	requests, err := s.repo.ListSentRequests(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow requests: %w", err)
	}
	responses := make([]models.FollowRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = models.FollowRequestResponse{
			UserID:    req.RequestedID,
			Username:  req.Requested.Username,
			CreatedAt: req.CreatedAt,
		}
	}
	return responses, nil
}

// Followers and Following listings are gated the same way profile views are:
// the list of a private account is visible only to the owner and accepted
// followers.
func (s *FollowService) ListFollowers(viewerID, targetID uint) ([]models.FollowUserResponse, error) {
	if err := s.requireVisible(viewerID, targetID); err != nil {
		return nil, err
	}
	users, err := s.repo.ListFollowers(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return followUserResponses(users), nil
}

func (s *FollowService) ListFollowing(viewerID, targetID uint) ([]models.FollowUserResponse, error) {
	if err := s.requireVisible(viewerID, targetID); err != nil {
		return nil, err
	}
	users, err := s.repo.ListFollowing(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return followUserResponses(users), nil
}

// IsMutual reports whether both directed edges exist. Direct messaging keys
// off this.
func (s *FollowService) IsMutual(a, b uint) (bool, error) {
	forward, err := s.repo.IsFollowing(a, b)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	if !forward {
		return false, nil
	}
	backward, err := s.repo.IsFollowing(b, a)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return backward, nil
}

func (s *FollowService) requireVisible(viewerID, targetID uint) error {
	if viewerID == targetID {
		return nil
	}
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !target.IsPrivate {
		return nil
	}
	following, err := s.repo.IsFollowing(viewerID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow edge: %w", err)
	}
	if !following {
		return ErrNotFound
	}
	return nil
}

func followUserResponses(users []models.User) []models.FollowUserResponse {
	responses := make([]models.FollowUserResponse, len(users))
	for i, u := range users {
		responses[i] = models.FollowUserResponse{ID: u.ID, Username: u.Username}
	}
	return responses
}
