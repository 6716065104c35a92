package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches a unique-index error", func(t *testing.T) {
		err := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_unique"}
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("matches when wrapped", func(t *testing.T) {
		err := fmt.Errorf("create user: %w", &pgconn.PgError{Code: uniqueViolationCode})
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("ignores other pg errors", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23503"} // foreign key violation
		assert.False(t, isUniqueViolation(err))
	})

	t.Run("ignores non-pg errors and nil", func(t *testing.T) {
		assert.False(t, isUniqueViolation(errors.New("connection reset")))
		assert.False(t, isUniqueViolation(nil))
	})
}
