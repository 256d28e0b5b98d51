package postgres

import (
	"fmt"

	"gradpolls/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// CreateWithCreator inserts the community and its first membership (the
// creator) in one transaction. The unique (university, program) index
// rejects duplicates atomically.
func (r *CommunityRepository) CreateWithCreator(community *models.Community) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateKey
			}
			return fmt.Errorf("failed to create community: %w", err)
		}
		member := models.CommunityMember{
			UserID:      community.CreatedByID,
			CommunityID: community.ID,
		}
		return tx.Create(&member).Error
	})
}

func (r *CommunityRepository) FindByID(id uint) (*models.Community, error) {
	var community models.Community
	err := r.db.First(&community, id).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *CommunityRepository) List(search string) ([]models.Community, error) {
	q := r.db.Order("created_at DESC")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("university LIKE ? OR program LIKE ?", pattern, pattern)
	}
	var communities []models.Community
	err := q.Find(&communities).Error
	return communities, err
}

func (r *CommunityRepository) IsMember(userID, communityID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommunityMember{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Count(&count).Error
	return count > 0, err
}

// AddMember is idempotent: joining twice leaves a single membership row.
func (r *CommunityRepository) AddMember(userID, communityID uint) error {
	member := models.CommunityMember{UserID: userID, CommunityID: communityID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

func (r *CommunityRepository) CountMembers(communityID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	return count, err
}

func (r *CommunityRepository) CreateMessage(message *models.CommunityMessage) error {
	return r.db.Create(message).Error
}

func (r *CommunityRepository) ListMessages(communityID uint, limit int) ([]models.CommunityMessage, error) {
	var messages []models.CommunityMessage
	err := r.db.
		Preload("Author").
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Pin reports whether a new pin row was created; false means it was already
// pinned. The unique pair index absorbs concurrent pins.
func (r *CommunityRepository) Pin(userID, communityID uint) (bool, error) {
	pin := models.PinnedCommunity{UserID: userID, CommunityID: communityID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pin)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unpin reports whether a pin row was removed; false means nothing was
// pinned.
func (r *CommunityRepository) Unpin(userID, communityID uint) (bool, error) {
	res := r.db.
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Delete(&models.PinnedCommunity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CommunityRepository) ListPinned(userID uint) ([]models.Community, error) {
	var communities []models.Community
	err := r.db.
		Joins("JOIN pinned_communities ON pinned_communities.community_id = communities.id").
		Where("pinned_communities.user_id = ?", userID).
		Order("pinned_communities.created_at DESC").
		Find(&communities).Error
	return communities, err
}
