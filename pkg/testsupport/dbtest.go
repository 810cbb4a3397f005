package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

var dbSeq atomic.Int64

// NewBunSQLiteDB opens a fresh in-memory SQLite database wrapped in bun.
// Each call gets its own named database so concurrent tests never share
// state, and the pool is pinned to a single connection because a shared-cache
// memory database vanishes when its last connection closes.
func NewBunSQLiteDB() (*bun.DB, error) {
	dsn := fmt.Sprintf("file:gallerytest%d?mode=memory&cache=shared", dbSeq.Add(1))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}
