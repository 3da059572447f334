package repositories

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Repository owns the badger database and hands out the per-entity
// repositories that share it.
type Repository struct {
	db       *badger.DB
	dbPath   string
	inMemory bool
}

// NewRepository opens the badger database at path. An empty path opens an
// in-memory database, used by tests.
func NewRepository(path string) (*Repository, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.
		WithLogger(nil).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger database at %q", path)
	}
	return &Repository{
		db:       db,
		dbPath:   path,
		inMemory: path == "",
	}, nil
}

// NewRepositoryWithDB wraps an already opened database.
func NewRepositoryWithDB(db *badger.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *badger.DB {
	return r.db
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Clear drops every key, including the id sequences.
func (r *Repository) Clear() error {
	return r.db.DropAll()
}

func (r *Repository) Posts() *BadgerPostRepository {
	return NewBadgerPostRepository(r.db)
}

func (r *Repository) Comments() *BadgerCommentRepository {
	return NewBadgerCommentRepository(r.db)
}

func (r *Repository) Users() *BadgerUserRepository {
	return NewBadgerUserRepository(r.db)
}

func (r *Repository) Categories() *BadgerCategoryRepository {
	return NewBadgerCategoryRepository(r.db)
}

func (r *Repository) Locations() *BadgerLocationRepository {
	return NewBadgerLocationRepository(r.db)
}
