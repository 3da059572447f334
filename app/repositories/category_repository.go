package repositories

import (
	"sort"

	"blogicum/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCategoryRepository implements CategoryRepository using BadgerDB
type BadgerCategoryRepository struct {
	db *badger.DB
}

func NewBadgerCategoryRepository(db *badger.DB) *BadgerCategoryRepository {
	return &BadgerCategoryRepository{db: db}
}

// Create stores a category, failing with ErrConflict on a taken slug
func (r *BadgerCategoryRepository) Create(category *models.Category) error {
	return r.db.Update(func(txn *badger.Txn) error {
		indexKey := categorySlugIndexKey(category.Slug)
		if err := mustExist(txn, indexKey); err == nil {
			return ErrConflict
		} else if err != ErrNotFound {
			return err
		}

		id, err := getNextID(txn, CategorySeqKey)
		if err != nil {
			return err
		}
		category.ID = id
		category.BeforeCreate()

		if err := txn.Set(indexKey, encodeID(category.ID)); err != nil {
			return err
		}
		return setEntity(txn, categoryKey(category.ID), category)
	})
}

func (r *BadgerCategoryRepository) GetByID(id int) (*models.Category, error) {
	var category models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, categoryKey(id), &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *BadgerCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, categorySlugIndexKey(slug))
		if err != nil {
			return err
		}
		return getEntity(txn, categoryKey(id), &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns every category ordered by title
func (r *BadgerCategoryRepository) List() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		return eachValue(txn, []byte(CategoryKeyPrefix), func(val []byte) error {
			var category models.Category
			if err := unmarshalEntity(val, &category); err != nil {
				return err
			}
			categories = append(categories, &category)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Title < categories[j].Title
	})
	return categories, nil
}

func (r *BadgerCategoryRepository) Update(category *models.Category) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Category
		if err := getEntity(txn, categoryKey(category.ID), &existing); err != nil {
			return err
		}

		if existing.Slug != category.Slug {
			newIndex := categorySlugIndexKey(category.Slug)
			if err := mustExist(txn, newIndex); err == nil {
				return ErrConflict
			} else if err != ErrNotFound {
				return err
			}
			if err := txn.Delete(categorySlugIndexKey(existing.Slug)); err != nil {
				return err
			}
			if err := txn.Set(newIndex, encodeID(category.ID)); err != nil {
				return err
			}
		}
		return setEntity(txn, categoryKey(category.ID), category)
	})
}
