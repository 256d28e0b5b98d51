package postgres

import (
	"fmt"

	"gradpolls/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// CreateFollow inserts the directed edge. ON CONFLICT DO NOTHING makes the
// call idempotent: re-following is a no-op instead of a uniqueness error.
func (r *FollowRepository) CreateFollow(followerID, followedID uint) error {
	follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
}

func (r *FollowRepository) DeleteFollow(followerID, followedID uint) error {
	return r.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (r *FollowRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// CreateRequest records a pending follow request. The unique pair index
// rejects a second pending request in the same direction atomically.
func (r *FollowRepository) CreateRequest(requesterID, requestedID uint) error {
	req := models.FollowRequest{RequesterID: requesterID, RequestedID: requestedID}
	if err := r.db.Create(&req).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create follow request: %w", err)
	}
	return nil
}

func (r *FollowRepository) HasPendingRequest(requesterID, requestedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND requested_id = ?", requesterID, requestedID).
		Count(&count).Error
	return count > 0, err
}

// AcceptRequest consumes the pending request and creates the follow edge
// requester -> owner in one transaction; neither half can commit alone.
// Returns gorm.ErrRecordNotFound when no such request is pending.
func (r *FollowRepository) AcceptRequest(ownerID, requesterID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("requester_id = ? AND requested_id = ?", requesterID, ownerID).
			Delete(&models.FollowRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		follow := models.Follow{FollowerID: requesterID, FollowedID: ownerID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
	})
}

// RejectRequest discards the pending request without creating an edge.
func (r *FollowRepository) RejectRequest(ownerID, requesterID uint) error {
	res := r.db.
		Where("requester_id = ? AND requested_id = ?", requesterID, ownerID).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FollowRepository) ListReceivedRequests(userID uint) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := r.db.
		Preload("Requester").
		Where("requested_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *FollowRepository) ListSentRequests(userID uint) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := r.db.
		Preload("Requested").
		Where("requester_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *FollowRepository) ListFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (r *FollowRepository) ListFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (r *FollowRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *FollowRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
