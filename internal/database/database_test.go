package database

import (
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, names, 4)

	source, err := iofs.New(Migrations, "migrations")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.EqualValues(t, 1, first)

	next, err := source.Next(first)
	require.NoError(t, err)
	assert.EqualValues(t, 2, next)
}
