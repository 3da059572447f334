package repositories

import (
	"sort"

	"blogicum/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are keyed by post so a post's comments can be listed and counted
// with a prefix scan; a secondary index maps comment ids to their post.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment on an existing post
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := mustExist(txn, postKey(comment.PostID)); err != nil {
			return errors.Wrapf(err, "post %d", comment.PostID)
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		comment.BeforeCreate()

		if err := txn.Set(commentPostIndexKey(comment.ID), encodeID(comment.PostID)); err != nil {
			return err
		}
		return setEntity(txn, commentKey(comment.PostID, comment.ID), comment.Record())
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment

	err := r.db.View(func(txn *badger.Txn) error {
		postID, err := getIndex(txn, commentPostIndexKey(id))
		if err != nil {
			return err
		}
		if err := getEntity(txn, commentKey(postID, id), &comment); err != nil {
			return err
		}
		return newRelationLoader(txn).comment(&comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		loader := newRelationLoader(txn)
		return eachValue(txn, commentsOfPostPrefix(postID), func(val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return errors.Wrap(err, "failed to unmarshal comment")
			}
			if err := loader.comment(&comment); err != nil {
				return err
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// Update updates the text of an existing comment. The post and author of a
// comment never change.
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		postID, err := getIndex(txn, commentPostIndexKey(comment.ID))
		if err != nil {
			return err
		}

		var existing models.Comment
		key := commentKey(postID, comment.ID)
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}

		existing.Text = comment.Text
		return setEntity(txn, key, existing.Record())
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		indexKey := commentPostIndexKey(id)
		postID, err := getIndex(txn, indexKey)
		if err != nil {
			return err
		}
		if err := txn.Delete(commentKey(postID, id)); err != nil {
			return err
		}
		return txn.Delete(indexKey)
	})
}
