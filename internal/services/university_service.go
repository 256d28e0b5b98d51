package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"gradpolls/internal/models"
)

// UniversitySearchLimit caps the number of dataset matches returned.
const UniversitySearchLimit = 10

// UniversityService answers name searches from a local JSON dataset and
// fetches richer records from the remote lookup API. The dataset is read
// lazily on first use; a missing or unreadable file degrades to an empty
// dataset rather than an error.
type UniversityService struct {
	dataFile  string
	lookupURL string
	client    *http.Client

	loadOnce sync.Once
	dataset  []models.University
}

func NewUniversityService(dataFile, lookupURL string, timeout time.Duration) *UniversityService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UniversityService{
		dataFile:  dataFile,
		lookupURL: lookupURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *UniversityService) load() {
	s.loadOnce.Do(func() {
		raw, err := os.ReadFile(s.dataFile)
		if err != nil {
			slog.Warn("university dataset unavailable", "file", s.dataFile, "error", err)
			return
		}
		if err := json.Unmarshal(raw, &s.dataset); err != nil {
			slog.Warn("university dataset unreadable", "file", s.dataFile, "error", err)
			s.dataset = nil
		}
	})
}

// Search returns up to UniversitySearchLimit dataset entries whose name
// contains the query, case-insensitively.
func (s *UniversityService) Search(query string) []models.University {
	s.load()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []models.University{}
	}
	matches := make([]models.University, 0, UniversitySearchLimit)
	for _, u := range s.dataset {
		if strings.Contains(strings.ToLower(u.Name), query) {
			matches = append(matches, u)
			if len(matches) == UniversitySearchLimit {
				break
			}
		}
	}
	return matches
}

// Canonical resolves a free-form name to the dataset's spelling. An exact
// case-insensitive match wins; otherwise a unique substring match is
// accepted. Unknown names return false and the caller keeps its input.
func (s *UniversityService) Canonical(ctx context.Context, name string) (string, bool) {
	s.load()
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	var partial string
	var partials int
	for _, u := range s.dataset {
		lower := strings.ToLower(u.Name)
		if lower == needle {
			return u.Name, true
		}
		if strings.Contains(lower, needle) {
			partial = u.Name
			partials++
		}
	}
	if partials == 1 {
		return partial, true
	}
	return "", false
}

// Lookup queries the remote API for full records. Remote failures are
// reported to the caller; the endpoint is optional functionality, not a
// dependency of poll creation.
func (s *UniversityService) Lookup(ctx context.Context, name string) ([]models.UniversityDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.lookupURL+"?name="+url.QueryEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("university lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("university lookup failed: status %d", resp.StatusCode)
	}

	var details []models.UniversityDetail
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	return details, nil
}
