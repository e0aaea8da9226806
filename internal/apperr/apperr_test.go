package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("create: %w", NotFound("user %d not found", 7))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "user 7 not found", Message(err))
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", Message(err))
}

func TestFromDBUniqueViolation(t *testing.T) {
	err := FromDB(&pgconn.PgError{Code: "23505"}, "create user")
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "create user: already exists", Message(err))
}

func TestFromDBForeignKeyViolation(t *testing.T) {
	err := FromDB(fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503"}), "delete shop")
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestFromDBNoRows(t *testing.T) {
	err := FromDB(pgx.ErrNoRows, "shop not found")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestFromDBKeepsKind(t *testing.T) {
	orig := InvalidArgument("bad")
	assert.Same(t, orig, FromDB(orig, "ignored"))
}

func TestFromDBOther(t *testing.T) {
	err := FromDB(errors.New("conn reset"), "insert purchase")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "insert purchase", Message(err))
	assert.Nil(t, FromDB(nil, "x"))
}
