package data

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	apperrors "github.com/target/jobboard/internal/errors"
)

// User-facing not-found messages returned by the repositories.
const (
	msgJobNotFound         = "Job not found."
	msgApplicationNotFound = "Application not found."
)

// mapErr converts driver errors into AppErrors, using notFound as the message
// when no row matched.
func mapErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, notFound)
	}
	return apperrors.MapDBError(err)
}

// validID reports whether id can be bound to a UUID column. Ids coming from
// URLs are untrusted; a malformed id simply matches nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func parseIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func toPtrs[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
