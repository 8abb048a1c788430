package migrate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"damagecontrol/internal/db"
	"damagecontrol/internal/migrate"
)

func TestMigrateIsRepeatable(t *testing.T) {
	conn, err := db.Open(db.Config{Name: "migrate-" + uuid.NewString()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	ctx := context.Background()

	v1, err := migrate.Migrate(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, 1, v1)

	v2, err := migrate.Migrate(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM systems`).Scan(&n))
	assert.Zero(t, n)
}
