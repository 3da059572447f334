package repositories

import (
	"time"

	"blogicum/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userRecord is the stored form of a user. It keeps the password hash that
// models.User hides from JSON output.
type userRecord struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"password_hash"`
	DateJoined   time.Time `json:"date_joined"`
}

func newUserRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		DateJoined:   u.DateJoined,
	}
}

func (r *userRecord) user() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: r.PasswordHash,
		DateJoined:   r.DateJoined,
	}
}

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user, failing with ErrConflict on a taken username
func (r *BadgerUserRepository) Create(user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		indexKey := usernameIndexKey(user.Username)
		if err := mustExist(txn, indexKey); err == nil {
			return ErrConflict
		} else if err != ErrNotFound {
			return err
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id
		user.BeforeCreate()

		if err := txn.Set(indexKey, encodeID(user.ID)); err != nil {
			return err
		}
		return setEntity(txn, userKey(user.ID), newUserRecord(user))
	})
}

func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var record userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &record)
	})
	if err != nil {
		return nil, err
	}
	return record.user(), nil
}

func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var record userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, usernameIndexKey(username))
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &record)
	})
	if err != nil {
		return nil, err
	}
	return record.user(), nil
}

// Update saves user, moving the username index when the username changed
func (r *BadgerUserRepository) Update(user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing userRecord
		if err := getEntity(txn, userKey(user.ID), &existing); err != nil {
			return err
		}

		if existing.Username != user.Username {
			newIndex := usernameIndexKey(user.Username)
			if err := mustExist(txn, newIndex); err == nil {
				return ErrConflict
			} else if err != ErrNotFound {
				return err
			}
			if err := txn.Delete(usernameIndexKey(existing.Username)); err != nil {
				return err
			}
			if err := txn.Set(newIndex, encodeID(user.ID)); err != nil {
				return err
			}
		}

		if user.PasswordHash == "" {
			user.PasswordHash = existing.PasswordHash
		}
		return setEntity(txn, userKey(user.ID), newUserRecord(user))
	})
}
