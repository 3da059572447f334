package repositories

import (
	"blogicum/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate()

		return setEntity(txn, postKey(post.ID), post.Record())
	})
}

// GetByID retrieves a post by ID together with its relations
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		return newRelationLoader(txn).post(&post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Find returns one page of the posts selected by query, newest first.
func (r *BadgerPostRepository) Find(query PostQuery) (*Page, error) {
	if query.PageSize < 1 {
		return nil, ErrInvalidPageSize
	}

	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		loader := newRelationLoader(txn)
		return eachValue(txn, []byte(PostKeyPrefix), func(val []byte) error {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return errors.Wrap(err, "failed to unmarshal post")
			}
			if !query.matches(&post) {
				return nil
			}
			if err := loader.post(&post); err != nil {
				return err
			}
			if query.accepts(&post) {
				posts = append(posts, &post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	SortPosts(posts)
	return Paginate(posts, query.Page, query.PageSize)
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(post.ID)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		return setEntity(txn, key, post.Record())
	})
}

// Delete deletes a post and all of its comments in one transaction
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)
		if err := mustExist(txn, key); err != nil {
			return err
		}

		prefix := commentsOfPostPrefix(id)
		for _, commentKey := range keysWithPrefix(txn, prefix) {
			_, commentID, err := parseCommentKey(commentKey)
			if err != nil {
				return err
			}
			if err := txn.Delete(commentPostIndexKey(commentID)); err != nil {
				return err
			}
			if err := txn.Delete(commentKey); err != nil {
				return err
			}
		}

		return txn.Delete(key)
	})
}
