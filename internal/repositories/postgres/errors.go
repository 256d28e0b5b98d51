package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey marks a uniqueness violation raised by the store. Services
// translate it into the matching domain conflict (duplicate vote, pending
// request, existing community).
var ErrDuplicateKey = errors.New("duplicate key")

// isDuplicateKey recognizes unique-constraint violations both from the
// Postgres driver (SQLSTATE 23505) and from gorm's translated error, which
// covers the sqlite driver used in tests.
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
