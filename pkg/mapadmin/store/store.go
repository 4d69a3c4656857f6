// Package store is the data-access layer of mapadmin. It wraps a *gorm.DB and
// offers generic lookups for every model plus the user and group operations
// the administration service is built from.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = errors.New("record not found")

// Identifiable is implemented by every persisted model
type Identifiable interface {
	GetID() uint
}

// Store is the data-access object. A Store obtained inside Transaction is
// bound to that transaction.
type Store struct {
	db *gorm.DB
}

// New creates a store on top of db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside a database transaction. The transaction is
// rolled back if fn returns an error or panics.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) with(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Get loads the record of type T with the given primary key
func Get[T any](ctx context.Context, s *Store, id uint, preloads ...string) (*T, error) {
	var out T
	q := s.with(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// FindBy loads the first record of type T whose column field equals value.
// It returns ErrNotFound if there is none.
func FindBy[T any](ctx context.Context, s *Store, field string, value any) (*T, error) {
	var out T
	err := s.with(ctx).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// Exists reports whether a record of type T with column field equal to value exists
func Exists[T any](ctx context.Context, s *Store, field string, value any) (bool, error) {
	var count int64
	err := s.with(ctx).Model(new(T)).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Count(&count).Error
	return count > 0, err
}

// ByIDs loads all records of type T with the given primary keys, in the
// order of ids. A missing id yields an error wrapping ErrNotFound.
func ByIDs[T Identifiable](ctx context.Context, s *Store, ids []uint) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var found []T
	if err := s.with(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]T, len(found))
	for _, item := range found {
		byID[item.GetID()] = item
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%T %d: %w", item, id, ErrNotFound)
		}
		out = append(out, item)
	}
	return out, nil
}

// Create inserts value together with its associations
func (s *Store) Create(ctx context.Context, value any) error {
	return s.with(ctx).Create(value).Error
}

// Save updates all columns of value but none of its associations
func (s *Store) Save(ctx context.Context, value any) error {
	return s.with(ctx).Omit(clause.Associations).Save(value).Error
}

// Delete removes the record of type T with the given primary key
func Delete[T any](ctx context.Context, s *Store, id uint) error {
	result := s.with(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// replaceAssociation sets a many2many relation of owner to exactly items
func replaceAssociation[T any](ctx context.Context, s *Store, owner any, name string, items []T) error {
	assoc := s.with(ctx).Model(owner).Association(name)
	if len(items) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(items)
}
