package postgres

import (
	"errors"

	"gradpolls/internal/models"

	"gorm.io/gorm"
)

// maxThreadDepth caps subtree traversal so a pathological reply chain cannot
// loop the collector forever. Nesting itself is unbounded by design.
const maxThreadDepth = 1000

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListRoots returns the poll's top-level comments, newest first. Replies are
// fetched per parent through ListReplies so large threads never have to be
// materialized in one shot.
func (r *CommentRepository) ListRoots(pollID uint, page, perPage int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("poll_id = ? AND parent_id IS NULL", pollID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error
	return comments, err
}

// ListReplies pages through one comment's direct replies; restartable via
// the page argument.
func (r *CommentRepository) ListReplies(parentID uint, page, perPage int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("parent_id = ?", parentID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error
	return comments, err
}

// CountReplies returns direct reply counts for the given comment IDs.
func (r *CommentRepository) CountReplies(ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		ParentID uint
		Count    int64
	}
	err := r.db.Model(&models.Comment{}).
		Select("parent_id, COUNT(*) AS count").
		Where("parent_id IN ?", ids).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ParentID] = row.Count
	}
	return counts, nil
}

// DeleteSubtree removes the comment and every descendant in one transaction.
// The subtree is collected level by level up to maxThreadDepth.
func (r *CommentRepository) DeleteSubtree(rootID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{rootID}
		frontier := []uint{rootID}
		for depth := 0; len(frontier) > 0; depth++ {
			if depth >= maxThreadDepth {
				return errors.New("comment thread exceeds depth limit")
			}
			var children []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}
		return tx.Delete(&models.Comment{}, "id IN ?", ids).Error
	})
}
