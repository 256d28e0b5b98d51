package services

import (
	"context"
	"testing"
	"time"

	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLookup struct {
	canonical string
	details   map[string][]models.UniversityDetail
	err       error
}

func (s *stubLookup) Canonical(ctx context.Context, name string) (string, bool) {
	if s.canonical == "" {
		return "", false
	}
	return s.canonical, true
}

func (s *stubLookup) Lookup(ctx context.Context, name string) ([]models.UniversityDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.details[name], nil
}

func newPollService(t *testing.T, db *gorm.DB, now time.Time) *PollService {
	t.Helper()
	svc := NewPollService(postgres.NewPollRepository(db), nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func options(names ...string) []models.PollOptionInput {
	opts := make([]models.PollOptionInput, len(names))
	for i, n := range names {
		opts[i] = models.PollOptionInput{Name: n}
	}
	return opts
}

func TestCreatePollDefaultEndDate(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newPollService(t, db, now)
	user := createTestUser(t, db, "alice", false)

	resp, err := svc.CreatePoll(context.Background(), &user.ID, &models.CreatePollRequest{
		Title:    "Thesis or coursework track?",
		PollType: models.PollTypeGeneral,
		Options:  options("Thesis", "Coursework"),
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(72*time.Hour), resp.EndDate)
	assert.Equal(t, now.Add(5*time.Minute), resp.MinEndDate)
	assert.Equal(t, now.Add(240*time.Hour), resp.MaxEndDate)

	poll, err := svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	require.Len(t, poll.Options, 3)
	assert.Equal(t, models.ViewingOnlyOption, poll.Options[2].Text)
	assert.True(t, poll.IsActive)
}

func TestCreatePollEndDateBounds(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newPollService(t, db, now)

	base := models.CreatePollRequest{
		Title:    "When?",
		PollType: models.PollTypeGeneral,
		Options:  options("A", "B"),
	}

	tooSoon := base
	tooSoon.EndDate = now.Add(time.Minute).Format(time.RFC3339)
	_, err := svc.CreatePoll(context.Background(), nil, &tooSoon)
	assert.ErrorIs(t, err, ErrEndDateTooSoon)

	tooFar := base
	tooFar.EndDate = now.Add(241 * time.Hour).Format(time.RFC3339)
	_, err = svc.CreatePoll(context.Background(), nil, &tooFar)
	assert.ErrorIs(t, err, ErrEndDateTooFar)

	badFormat := base
	badFormat.EndDate = "next tuesday"
	_, err = svc.CreatePoll(context.Background(), nil, &badFormat)
	assert.ErrorIs(t, err, ErrEndDateFormat)

	valid := base
	valid.EndDate = now.Add(48 * time.Hour).Format(time.RFC3339)
	resp, err := svc.CreatePoll(context.Background(), nil, &valid)
	require.NoError(t, err)
	assert.Equal(t, now.Add(48*time.Hour).Unix(), resp.EndDate.Unix())
}

func TestCreatePollTooFewOptions(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())

	_, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "One choice",
		PollType: models.PollTypeGeneral,
		Options:  options("Only"),
	})
	assert.ErrorIs(t, err, ErrTooFewOptions)

	// Blank options do not count toward the minimum.
	_, err = svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Padded",
		PollType: models.PollTypeGeneral,
		Options:  options("Real", "  ", ""),
	})
	assert.ErrorIs(t, err, ErrTooFewOptions)
}

func TestCreatePollUniversityCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())

	_, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Which offer?",
		PollType: models.PollTypeUniversity,
		Options:  options("A", "B"),
	})
	assert.ErrorIs(t, err, ErrCourseRequired)

	svc.universities = &stubLookup{canonical: "Massachusetts Institute of Technology"}
	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Which offer?",
		PollType: models.PollTypeUniversity,
		Course:   "mit",
		Options:  options("A", "B"),
	})
	require.NoError(t, err)

	poll, err := svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Massachusetts Institute of Technology", poll.Course)
}

func TestGetPollUniversityEnrichment(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())
	directory := &stubLookup{
		details: map[string][]models.UniversityDetail{
			"MIT": {{
				Name:         "Massachusetts Institute of Technology",
				Country:      "United States",
				AlphaTwoCode: "US",
				Domains:      []string{"mit.edu"},
			}},
		},
	}
	svc.universities = directory

	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Which offer?",
		PollType: models.PollTypeUniversity,
		Course:   "Computer Science",
		Options:  options("MIT", "Stanford"),
	})
	require.NoError(t, err)

	poll, err := svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	require.Len(t, poll.Options, 3)

	require.NotNil(t, poll.Options[0].University)
	assert.Equal(t, "Massachusetts Institute of Technology", poll.Options[0].University.Name)
	assert.Equal(t, "US", poll.Options[0].University.AlphaTwoCode)
	// No directory record, no enrichment.
	assert.Nil(t, poll.Options[1].University)
	// The appended viewing-only option is never looked up.
	assert.Nil(t, poll.Options[2].University)

	// A failing directory degrades to a bare projection, not an error.
	svc.universities = &stubLookup{err: assert.AnError}
	poll, err = svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	assert.Nil(t, poll.Options[0].University)

	// General polls skip the directory entirely.
	svc.universities = directory
	general, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Plain",
		PollType: models.PollTypeGeneral,
		Options:  options("MIT", "Other"),
	})
	require.NoError(t, err)
	poll, err = svc.GetPoll(context.Background(), nil, general.ID)
	require.NoError(t, err)
	assert.Nil(t, poll.Options[0].University)
}

func TestCastVoteOncePerPoll(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())
	user := createTestUser(t, db, "alice", false)

	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Pick one",
		PollType: models.PollTypeGeneral,
		Options:  options("A", "B"),
	})
	require.NoError(t, err)

	poll, err := svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	first, second := poll.Options[0].ID, poll.Options[1].ID

	result, err := svc.CastVote(context.Background(), &user.ID, resp.ID, &models.VoteRequest{OptionID: first})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalVotes)

	// Voting again is rejected poll-wide, even for a different option.
	_, err = svc.CastVote(context.Background(), &user.ID, resp.ID, &models.VoteRequest{OptionID: second})
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	// The detail projection reports the viewer's own vote, not anyone else's.
	poll, err = svc.GetPoll(context.Background(), &user.ID, resp.ID)
	require.NoError(t, err)
	assert.True(t, poll.UserVoted)
	poll, err = svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	assert.False(t, poll.UserVoted)
}

func TestCastVoteAnonymousUnlimited(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())

	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Pick one",
		PollType: models.PollTypeGeneral,
		Options:  options("A", "B"),
	})
	require.NoError(t, err)

	poll, err := svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	optionID := poll.Options[0].ID

	for i := 0; i < 3; i++ {
		_, err = svc.CastVote(context.Background(), nil, resp.ID, &models.VoteRequest{OptionID: optionID})
		require.NoError(t, err)
	}

	poll, err = svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), poll.TotalVotes)
}

func TestCastVoteRejectsEndedPoll(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newPollService(t, db, now)
	user := createTestUser(t, db, "alice", false)

	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Short poll",
		PollType: models.PollTypeGeneral,
		EndDate:  now.Add(time.Hour).Format(time.RFC3339),
		Options:  options("A", "B"),
	})
	require.NoError(t, err)

	poll, err := svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.CastVote(context.Background(), &user.ID, resp.ID, &models.VoteRequest{OptionID: poll.Options[0].ID})
	assert.ErrorIs(t, err, ErrPollEnded)

	// Ended polls remain readable.
	poll, err = svc.GetPoll(context.Background(), nil, resp.ID)
	require.NoError(t, err)
	assert.False(t, poll.IsActive)
}

func TestCastVoteInvalidOption(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())

	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "First",
		PollType: models.PollTypeGeneral,
		Options:  options("A", "B"),
	})
	require.NoError(t, err)

	other, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Second",
		PollType: models.PollTypeGeneral,
		Options:  options("C", "D"),
	})
	require.NoError(t, err)

	otherPoll, err := svc.GetPoll(context.Background(), nil, other.ID)
	require.NoError(t, err)

	// An option from another poll is not accepted.
	_, err = svc.CastVote(context.Background(), nil, resp.ID, &models.VoteRequest{OptionID: otherPoll.Options[0].ID})
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestToggleUpvote(t *testing.T) {
	db := setupTestDB(t)
	svc := newPollService(t, db, time.Now())
	user := createTestUser(t, db, "alice", false)

	resp, err := svc.CreatePoll(context.Background(), nil, &models.CreatePollRequest{
		Title:    "Upvote me",
		PollType: models.PollTypeGeneral,
		Options:  options("A", "B"),
	})
	require.NoError(t, err)

	_, err = svc.ToggleUpvote(context.Background(), nil, resp.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	result, err := svc.ToggleUpvote(context.Background(), &user.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UpvoteAdded, result.Status)
	assert.Equal(t, int64(1), result.Count)

	result, err = svc.ToggleUpvote(context.Background(), &user.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UpvoteRemoved, result.Status)
	assert.Equal(t, int64(0), result.Count)

	// Toggling back on works after removal.
	result, err = svc.ToggleUpvote(context.Background(), &user.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UpvoteAdded, result.Status)
}

func TestListActiveSorting(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newPollService(t, db, now)
	repo := postgres.NewPollRepository(db)

	mkPoll := func(title string, createdAt time.Time) uint {
		end := now.Add(24 * time.Hour)
		poll := &models.Poll{Title: title, PollType: models.PollTypeGeneral, EndDate: &end}
		require.NoError(t, repo.CreateWithOptions(poll, []string{"A", "B"}))
		require.NoError(t, db.Model(&models.Poll{}).Where("id = ?", poll.ID).
			Update("created_at", createdAt).Error)
		return poll.ID
	}
	upvote := func(pollID uint, userID uint, at time.Time) {
		require.NoError(t, db.Create(&models.PollUpvote{
			UserID: userID, PollID: pollID, CreatedAt: at,
		}).Error)
	}

	oldPopular := mkPoll("old popular", now.Add(-30*24*time.Hour))
	recent := mkPoll("recently upvoted", now.Add(-2*24*time.Hour))
	fresh := mkPoll("fresh", now.Add(-time.Hour))

	// Three all-time upvotes, all outside the trending window.
	for i := uint(1); i <= 3; i++ {
		upvote(oldPopular, i, now.Add(-20*24*time.Hour))
	}
	// Two upvotes within the last week.
	upvote(recent, 1, now.Add(-time.Hour))
	upvote(recent, 2, now.Add(-2*time.Hour))

	newOrder, err := svc.ListActive(models.SortNew, 1)
	require.NoError(t, err)
	require.Len(t, newOrder, 3)
	assert.Equal(t, fresh, newOrder[0].ID)

	top, err := svc.ListActive(models.SortTop, 1)
	require.NoError(t, err)
	assert.Equal(t, oldPopular, top[0].ID)
	assert.Equal(t, int64(3), top[0].Upvotes)

	trending, err := svc.ListActive(models.SortTrending, 1)
	require.NoError(t, err)
	assert.Equal(t, recent, trending[0].ID)
	assert.Equal(t, int64(2), trending[0].Upvotes)
	// Stale upvotes do not count toward trending.
	for _, item := range trending {
		if item.ID == oldPopular {
			assert.Equal(t, int64(0), item.Upvotes)
		}
	}

	_, err = svc.ListActive("hot", 1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestListActiveSortTieBreak(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newPollService(t, db, now)
	repo := postgres.NewPollRepository(db)

	mkPoll := func(title string, createdAt time.Time) uint {
		end := now.Add(24 * time.Hour)
		poll := &models.Poll{Title: title, PollType: models.PollTypeGeneral, EndDate: &end}
		require.NoError(t, repo.CreateWithOptions(poll, []string{"A", "B"}))
		require.NoError(t, db.Model(&models.Poll{}).Where("id = ?", poll.ID).
			Update("created_at", createdAt).Error)
		return poll.ID
	}

	older := mkPoll("older tied", now.Add(-3*24*time.Hour))
	newer := mkPoll("newer tied", now.Add(-24*time.Hour))

	// One upvote each, both inside the trending window.
	require.NoError(t, db.Create(&models.PollUpvote{
		UserID: 1, PollID: older, CreatedAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.PollUpvote{
		UserID: 2, PollID: newer, CreatedAt: now.Add(-time.Hour),
	}).Error)

	// Equal counts fall back to recency, newest first.
	top, err := svc.ListActive(models.SortTop, 1)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, newer, top[0].ID)
	assert.Equal(t, older, top[1].ID)

	trending, err := svc.ListActive(models.SortTrending, 1)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, newer, trending[0].ID)
	assert.Equal(t, int64(1), trending[0].Upvotes)
	assert.Equal(t, older, trending[1].ID)
}

func TestListArchived(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newPollService(t, db, now)
	repo := postgres.NewPollRepository(db)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	ended := &models.Poll{Title: "ended", PollType: models.PollTypeGeneral, EndDate: &past}
	require.NoError(t, repo.CreateWithOptions(ended, []string{"A", "B"}))
	active := &models.Poll{Title: "active", PollType: models.PollTypeGeneral, EndDate: &future}
	require.NoError(t, repo.CreateWithOptions(active, []string{"A", "B"}))

	archived, err := svc.ListArchived(1)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, ended.ID, archived[0].ID)

	listed, err := svc.ListActive(models.SortNew, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
}
