package persistence

import (
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/config"
)

func TestRunMigrationsWithoutPool(t *testing.T) {
	err := RunMigrations(context.Background(), nil, fstest.MapFS{}, zap.NewNop())
	assert.NoError(t, err)
}

func TestRunMigrationsRecordsEachFileOnce(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	defer pg.Close()

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	good := "0001_good_" + suffix + ".sql"
	bad := "0002_bad_" + suffix + ".sql"
	table := "migration_check_" + suffix
	t.Cleanup(func() {
		_, _ = pg.Pool.Exec(ctx, `DROP TABLE IF EXISTS `+table)
		_, _ = pg.Pool.Exec(ctx, `DELETE FROM schema_migrations WHERE name = ANY($1)`, []string{good, bad})
	})

	files := fstest.MapFS{
		good: {Data: []byte(`CREATE TABLE ` + table + ` (id INT);`)},
		bad:  {Data: []byte(`INSERT INTO ` + table + ` VALUES (1); SELECT * FROM missing_` + suffix + `;`)},
	}
	require.Error(t, RunMigrations(ctx, pg.Pool, files, zap.NewNop()))

	recorded := func(name string) bool {
		var exists bool
		require.NoError(t, pg.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists))
		return exists
	}
	assert.True(t, recorded(good))
	assert.False(t, recorded(bad))

	var rows int
	require.NoError(t, pg.Pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&rows))
	assert.Zero(t, rows, "failed migration left partial writes")

	delete(files, bad)
	require.NoError(t, RunMigrations(ctx, pg.Pool, files, zap.NewNop()))
	assert.True(t, recorded(good))
}
