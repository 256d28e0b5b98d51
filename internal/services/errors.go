package services

import "errors"

// Domain errors shared by the services. Handlers translate them to HTTP
// statuses through pkg/response; unexpected errors are logged and surfaced
// as generic failures.
var (
	// Validation
	ErrInvalidRequest = errors.New("invalid request")
	ErrEndDateTooSoon = errors.New("end date must be at least 5 minutes in the future")
	ErrEndDateTooFar  = errors.New("end date cannot be more than 10 days from now")
	ErrEndDateFormat  = errors.New("invalid end date format, use ISO format (YYYY-MM-DDTHH:MM:SSZ)")
	ErrTooFewOptions  = errors.New("at least two options are required")
	ErrCourseRequired = errors.New("course is required for university polls")
	ErrInvalidTarget  = errors.New("invalid target user")
	ErrInvalidOption  = errors.New("invalid option for this poll")
	ErrInvalidParent  = errors.New("invalid parent comment")
	ErrEmptyContent   = errors.New("content is required")

	// Authorization
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotMutual    = errors.New("users must follow each other to message")

	// Lookup
	ErrNotFound = errors.New("not found")

	// Conflicts
	ErrAlreadyVoted       = errors.New("already voted on this poll")
	ErrDuplicateCommunity = errors.New("a community for this university and program already exists")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Lifecycle
	ErrPollEnded = errors.New("this poll has ended")

	// Credentials
	ErrInvalidCredentials = errors.New("invalid credentials")
)
