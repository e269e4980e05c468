// Copyright (c) 2026 Mangata. All rights reserved.

package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlitestore "github.com/mangata-app/mangata/internal/platform/sqlite"
)

/*
TestOpen_PragmasApplyToEveryConnection verifies that foreign_keys is on for
every connection the pool opens, not just the first. The first connection is
pinned with [sql.DB.Conn] so the pragma read below is forced onto a second,
freshly opened connection.
*/
func TestOpen_PragmasApplyToEveryConnection(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlitestore.Open(ctx, filepath.Join(t.TempDir(), "library.sqlite3"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pinned, err := db.Conn(ctx)
	require.NoError(t, err)
	defer pinned.Close()

	var pinnedFK int
	require.NoError(t, pinned.QueryRowContext(ctx, "PRAGMA foreign_keys;").Scan(&pinnedFK))
	assert.Equal(t, 1, pinnedFK)

	var freshFK int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys;").Scan(&freshFK))
	assert.Equal(t, 1, freshFK)

	var freshBusy int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA busy_timeout;").Scan(&freshBusy))
	assert.Equal(t, 5000, freshBusy)
}
