package repositories

import (
	"sort"

	"blogicum/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerLocationRepository implements LocationRepository using BadgerDB
type BadgerLocationRepository struct {
	db *badger.DB
}

func NewBadgerLocationRepository(db *badger.DB) *BadgerLocationRepository {
	return &BadgerLocationRepository{db: db}
}

func (r *BadgerLocationRepository) Create(location *models.Location) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, LocationSeqKey)
		if err != nil {
			return err
		}
		location.ID = id
		location.BeforeCreate()
		return setEntity(txn, locationKey(location.ID), location)
	})
}

func (r *BadgerLocationRepository) GetByID(id int) (*models.Location, error) {
	var location models.Location
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, locationKey(id), &location)
	})
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// List returns every location ordered by name
func (r *BadgerLocationRepository) List() ([]*models.Location, error) {
	var locations []*models.Location
	err := r.db.View(func(txn *badger.Txn) error {
		return eachValue(txn, []byte(LocationKeyPrefix), func(val []byte) error {
			var location models.Location
			if err := unmarshalEntity(val, &location); err != nil {
				return err
			}
			locations = append(locations, &location)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].Name < locations[j].Name
	})
	return locations, nil
}

func (r *BadgerLocationRepository) Update(location *models.Location) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := locationKey(location.ID)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		return setEntity(txn, key, location)
	})
}
