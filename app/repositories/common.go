package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix     = "post:"
	CommentKeyPrefix  = "comment:"
	UserKeyPrefix     = "user:"
	CategoryKeyPrefix = "category:"
	LocationKeyPrefix = "location:"

	// Secondary indexes, each value is an encoded id
	CommentPostIndexPrefix  = "comment-post:"
	UsernameIndexPrefix     = "username:"
	CategorySlugIndexPrefix = "category-slug:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey     = "seq:post"
	CommentSeqKey  = "seq:comment"
	UserSeqKey     = "seq:user"
	CategorySeqKey = "seq:category"
	LocationSeqKey = "seq:location"
)

func postKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id))
}

func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CommentKeyPrefix, postID, id))
}

func commentsOfPostPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", CommentKeyPrefix, postID))
}

// parseCommentKey splits a "comment:<post id>:<comment id>" key.
func parseCommentKey(key []byte) (postID, id int, err error) {
	if _, err := fmt.Sscanf(string(key), CommentKeyPrefix+"%d:%d", &postID, &id); err != nil {
		return 0, 0, errors.Wrapf(err, "malformed comment key %q", key)
	}
	return postID, id, nil
}

func commentPostIndexKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", CommentPostIndexPrefix, id))
}

func userKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", UserKeyPrefix, id))
}

func usernameIndexKey(username string) []byte {
	return []byte(UsernameIndexPrefix + username)
}

func categoryKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", CategoryKeyPrefix, id))
}

func categorySlugIndexKey(slug string) []byte {
	return []byte(CategorySlugIndexPrefix + slug)
}

func locationKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", LocationKeyPrefix, id))
}

func encodeID(id int) []byte {
	return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
}

func decodeID(val []byte) (int, error) {
	if len(val) != 4 {
		return 0, errors.Errorf("invalid id encoding of length %d", len(val))
	}
	return int(val[0])<<24 | int(val[1])<<16 | int(val[2])<<8 | int(val[3]), nil
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id, err = decodeID(val)
			return err
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	if err := txn.Set([]byte(seqKey), encodeID(id)); err != nil {
		return 0, err
	}

	return id, nil
}

// getIndex resolves a secondary index key to the id it points at.
func getIndex(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var id int
	err = item.Value(func(val []byte) error {
		id, err = decodeID(val)
		return err
	})
	return id, err
}

// getEntity loads and unmarshals the value stored under key.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// mustExist returns ErrNotFound when key is absent.
func mustExist(txn *badger.Txn, key []byte) error {
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	return err
}

// setEntity marshals entity and stores it under key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// countPrefix counts the keys under prefix without reading values.
func countPrefix(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}

// keysWithPrefix returns copies of every key under prefix.
func keysWithPrefix(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// eachValue calls fn with every value stored under prefix.
func eachValue(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entity")
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return errors.Wrap(err, "failed to unmarshal entity")
	}
	return nil
}
