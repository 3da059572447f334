package repositories

import (
	"blogicum/app/models"

	"github.com/dgraph-io/badger/v4"
)

// relationLoader resolves the references of posts and comments inside one
// read transaction, caching rows shared by several posts of a listing.
type relationLoader struct {
	txn        *badger.Txn
	users      map[int]*models.User
	categories map[int]*models.Category
	locations  map[int]*models.Location
}

func newRelationLoader(txn *badger.Txn) *relationLoader {
	return &relationLoader{
		txn:        txn,
		users:      make(map[int]*models.User),
		categories: make(map[int]*models.Category),
		locations:  make(map[int]*models.Location),
	}
}

// user returns nil without error when the user row is missing.
func (l *relationLoader) user(id int) (*models.User, error) {
	if u, ok := l.users[id]; ok {
		return u, nil
	}
	var record userRecord
	err := getEntity(l.txn, userKey(id), &record)
	if err == ErrNotFound {
		l.users[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := record.user()
	l.users[id] = u
	return u, nil
}

func (l *relationLoader) category(id int) (*models.Category, error) {
	if c, ok := l.categories[id]; ok {
		return c, nil
	}
	var c models.Category
	err := getEntity(l.txn, categoryKey(id), &c)
	if err == ErrNotFound {
		l.categories[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l.categories[id] = &c
	return &c, nil
}

func (l *relationLoader) location(id int) (*models.Location, error) {
	if loc, ok := l.locations[id]; ok {
		return loc, nil
	}
	var loc models.Location
	err := getEntity(l.txn, locationKey(id), &loc)
	if err == ErrNotFound {
		l.locations[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l.locations[id] = &loc
	return &loc, nil
}

// post fills in author, category, location and comment count.
func (l *relationLoader) post(post *models.Post) error {
	var err error
	if post.Author, err = l.user(post.AuthorID); err != nil {
		return err
	}
	if post.CategoryID != nil {
		if post.Category, err = l.category(*post.CategoryID); err != nil {
			return err
		}
	}
	if post.LocationID != nil {
		if post.Location, err = l.location(*post.LocationID); err != nil {
			return err
		}
	}
	post.CommentCount = countPrefix(l.txn, commentsOfPostPrefix(post.ID))
	return nil
}

func (l *relationLoader) comment(comment *models.Comment) error {
	var err error
	comment.Author, err = l.user(comment.AuthorID)
	return err
}
