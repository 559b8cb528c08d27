package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestShareFilterWhereClause(t *testing.T) {
	clause, args := ShareFilter{}.WhereClause()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	width, mines := 30, 99
	clause, args = ShareFilter{Width: &width, MineCount: &mines}.WhereClause()
	assert.Equal(t, "width = @width AND mine_count = @mine_count", clause)
	assert.Equal(t, pgx.NamedArgs{"width": 30, "mine_count": 99}, args)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(fmt.Errorf("fetch: %w", pgx.ErrNoRows)), ErrNotFound)

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	err := translate(unique)
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, unique)

	check := &pgconn.PgError{Code: pgerrcode.CheckViolation}
	assert.Equal(t, check, translate(check))
}
