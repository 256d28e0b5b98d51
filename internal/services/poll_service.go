package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gradpolls/internal/adapters/kafka"
	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"gorm.io/gorm"
)

// PollsPerPage is the fixed page size for poll listings.
const PollsPerPage = 10

// UniversityLookup resolves university names. Canonical matches against the
// local dataset; the second return is false when the name is unknown, and
// callers keep the caller-supplied value in that case. Lookup fetches full
// records from the remote directory.
type UniversityLookup interface {
	Canonical(ctx context.Context, name string) (string, bool)
	Lookup(ctx context.Context, name string) ([]models.UniversityDetail, error)
}

type PollService struct {
	repo         *postgres.PollRepository
	universities UniversityLookup
	producer     *kafka.Producer

	// now is swappable for deterministic end-date tests.
	now func() time.Time
}

func NewPollService(repo *postgres.PollRepository, universities UniversityLookup, producer *kafka.Producer) *PollService {
	return &PollService{
		repo:         repo,
		universities: universities,
		producer:     producer,
		now:          time.Now,
	}
}

// CreatePoll validates the request, resolves the end date against the
// creation-time bounds and appends the viewing-only option after the
// caller's options. userID is nil for anonymous creation.
func (s *PollService) CreatePoll(ctx context.Context, userID *uint, req *models.CreatePollRequest) (*models.CreatePollResponse, error) {
	now := s.now()

	texts := make([]string, 0, len(req.Options)+1)
	for _, opt := range req.Options {
		text := strings.TrimSpace(opt.Name)
		if text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) < 2 {
		return nil, ErrTooFewOptions
	}
	texts = append(texts, models.ViewingOnlyOption)

	course := strings.TrimSpace(req.Course)
	if req.PollType == models.PollTypeUniversity {
		if course == "" {
			return nil, ErrCourseRequired
		}
		if s.universities != nil {
			if canonical, ok := s.universities.Canonical(ctx, course); ok {
				course = canonical
			}
		}
	}

	endDate := now.Add(models.PollDefaultDuration)
	if req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return nil, ErrEndDateFormat
		}
		if parsed.Before(now.Add(models.PollMinDuration)) {
			return nil, ErrEndDateTooSoon
		}
		if parsed.After(now.Add(models.PollMaxDuration)) {
			return nil, ErrEndDateTooFar
		}
		endDate = parsed
	}

	poll := models.Poll{
		Title:       req.Title,
		Description: req.Description,
		PollType:    req.PollType,
		Course:      course,
		EndDate:     &endDate,
		UserID:      userID,
	}
	if err := s.repo.CreateWithOptions(&poll, texts); err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	s.producer.Publish(ctx, strconv.FormatUint(uint64(poll.ID), 10), map[string]any{
		"type":      "poll.created",
		"poll_id":   poll.ID,
		"poll_type": poll.PollType,
	})

	return &models.CreatePollResponse{
		ID:             poll.ID,
		EndDate:        endDate,
		DefaultEndDate: now.Add(models.PollDefaultDuration),
		MinEndDate:     now.Add(models.PollMinDuration),
		MaxEndDate:     now.Add(models.PollMaxDuration),
	}, nil
}

// GetPoll projects the poll with per-option vote counts and the upvote
// total. University polls get their options enriched with directory records;
// a failed lookup leaves the option bare rather than failing the read.
// userID is nil for anonymous readers.
func (s *PollService) GetPoll(ctx context.Context, userID *uint, pollID uint) (*models.PollResponse, error) {
	poll, err := s.repo.FindByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}

	counts, err := s.repo.VoteCounts(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	upvotes, err := s.repo.UpvoteCount(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count upvotes: %w", err)
	}

	userVoted := false
	if userID != nil {
		userVoted, err = s.repo.HasUserVoted(pollID, *userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check vote: %w", err)
		}
	}

	options := make([]models.OptionCount, len(poll.Options))
	var total int64
	for i, opt := range poll.Options {
		options[i] = models.OptionCount{ID: opt.ID, Text: opt.Text, Votes: counts[opt.ID]}
		total += counts[opt.ID]

		if poll.PollType == models.PollTypeUniversity &&
			opt.Text != models.ViewingOnlyOption && s.universities != nil {
			if details, err := s.universities.Lookup(ctx, opt.Text); err == nil && len(details) > 0 {
				options[i].University = &details[0]
			}
		}
	}

	return &models.PollResponse{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		PollType:    poll.PollType,
		Course:      poll.Course,
		CreatedAt:   poll.CreatedAt,
		EndDate:     poll.EndDate,
		IsActive:    poll.IsActive(s.now()),
		Options:     options,
		TotalVotes:  total,
		Upvotes:     upvotes,
		UserVoted:   userVoted,
	}, nil
}

func (s *PollService) ListActive(sort string, page int) ([]models.PollListItem, error) {
	switch sort {
	case models.SortNew, models.SortTop, models.SortTrending:
	case "":
		sort = models.SortNew
	default:
		return nil, ErrInvalidRequest
	}
	if page < 1 {
		page = 1
	}
	items, err := s.repo.ListActive(sort, s.now(), page, PollsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return items, nil
}

func (s *PollService) ListArchived(page int) ([]models.PollListItem, error) {
	if page < 1 {
		page = 1
	}
	items, err := s.repo.ListArchived(s.now(), page, PollsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived polls: %w", err)
	}
	return items, nil
}

// CastVote records one vote. Authenticated users get exactly one vote per
// poll, enforced by the ledger's unique index; anonymous votes are unlimited.
func (s *PollService) CastVote(ctx context.Context, userID *uint, pollID uint, req *models.VoteRequest) (*models.VoteResponse, error) {
	poll, err := s.repo.FindByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	if !poll.IsActive(s.now()) {
		return nil, ErrPollEnded
	}

	valid := false
	for _, opt := range poll.Options {
		if opt.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidOption
	}

	vote := models.Vote{UserID: userID, PollID: pollID, OptionID: req.OptionID}
	if err := s.repo.CreateVote(&vote); err != nil {
		if errors.Is(err, postgres.ErrDuplicateKey) {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	s.producer.Publish(ctx, strconv.FormatUint(uint64(pollID), 10), map[string]any{
		"type":      "vote.cast",
		"poll_id":   pollID,
		"option_id": req.OptionID,
	})

	counts, err := s.repo.VoteCounts(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	options := make([]models.OptionCount, len(poll.Options))
	var total int64
	for i, opt := range poll.Options {
		options[i] = models.OptionCount{ID: opt.ID, Votes: counts[opt.ID]}
		total += counts[opt.ID]
	}
	return &models.VoteResponse{Options: options, TotalVotes: total}, nil
}

// ToggleUpvote flips the caller's upvote on the poll. Upvotes require an
// account; there is no anonymous path.
func (s *PollService) ToggleUpvote(ctx context.Context, userID *uint, pollID uint) (*models.UpvoteResponse, error) {
	if userID == nil {
		return nil, ErrUnauthorized
	}
	if _, err := s.repo.FindByID(pollID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}

	status, err := s.repo.ToggleUpvote(*userID, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle upvote: %w", err)
	}
	count, err := s.repo.UpvoteCount(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count upvotes: %w", err)
	}
	return &models.UpvoteResponse{Status: status, Count: count}, nil
}
