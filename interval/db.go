package interval

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
)

// DB is a Search over a database file.
type DB struct {
	*Search
	f file.File
}

// OpenDB opens the database at path. The file must be seekable, so
// compressed databases are rejected.
func OpenDB(ctx context.Context, path string) (*DB, error) {
	if fileio.DetermineType(path) == fileio.Gzip {
		return nil, errors.E("interval.OpenDB: compressed database is not seekable:", path)
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "interval.OpenDB:", path)
	}
	return &DB{Search: NewSearch(NewCursor(f.Reader(ctx))), f: f}, nil
}

// Close closes the database file.
func (db *DB) Close(ctx context.Context) error {
	queries, hits, malformed := db.Stats()
	log.Printf("interval: %s: %d queries, %d hits, %d malformed lines", db.f.Name(), queries, hits, malformed)
	return db.f.Close(ctx)
}
