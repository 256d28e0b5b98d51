package services

import (
	"errors"
	"fmt"
	"strings"

	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"gorm.io/gorm"
)

// CommentsPerPage is the fixed page size for comment listings.
const CommentsPerPage = 10

type CommentService struct {
	repo     *postgres.CommentRepository
	pollRepo *postgres.PollRepository
}

func NewCommentService(repo *postgres.CommentRepository, pollRepo *postgres.PollRepository) *CommentService {
	return &CommentService{repo: repo, pollRepo: pollRepo}
}

// CreateComment adds a comment to the poll. A reply's parent must be a
// comment on the same poll; cross-poll parents are rejected.
func (s *CommentService) CreateComment(authorID, pollID uint, req *models.CreateCommentRequest) (*models.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.pollRepo.FindByID(pollID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}

	if req.ParentID != nil {
		parent, err := s.repo.FindByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		if parent.PollID != pollID {
			return nil, ErrInvalidParent
		}
	}

	comment := models.Comment{
		Content:  content,
		AuthorID: authorID,
		PollID:   pollID,
		ParentID: req.ParentID,
	}
	if err := s.repo.Create(&comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.repo.FindByID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	resp := commentResponse(created, 0)
	return &resp, nil
}

// ListComments pages through the poll's root comments with direct reply
// counts attached.
func (s *CommentService) ListComments(pollID uint, page int) ([]models.CommentResponse, error) {
	if page < 1 {
		page = 1
	}
	comments, err := s.repo.ListRoots(pollID, page, CommentsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return s.withReplyCounts(comments)
}

func (s *CommentService) ListReplies(parentID uint, page int) ([]models.CommentResponse, error) {
	if page < 1 {
		page = 1
	}
	if _, err := s.repo.FindByID(parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	comments, err := s.repo.ListReplies(parentID, page, CommentsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return s.withReplyCounts(comments)
}

// DeleteComment removes the author's comment together with its reply
// subtree. Only the author may delete.
func (s *CommentService) DeleteComment(actorID, commentID uint) error {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment.AuthorID != actorID {
		return ErrUnauthorized
	}
	if err := s.repo.DeleteSubtree(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) withReplyCounts(comments []models.Comment) ([]models.CommentResponse, error) {
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	counts, err := s.repo.CountReplies(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}
	responses := make([]models.CommentResponse, len(comments))
	for i := range comments {
		responses[i] = commentResponse(&comments[i], counts[comments[i].ID])
	}
	return responses, nil
}

func commentResponse(c *models.Comment, replies int64) models.CommentResponse {
	return models.CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    c.Author.Username,
		AuthorID:  c.AuthorID,
		PollID:    c.PollID,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		Replies:   replies,
	}
}
