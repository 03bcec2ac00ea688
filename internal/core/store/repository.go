package store

import (
	"context"

	"gorm.io/gorm"
)

type Scope = func(*gorm.DB) *gorm.DB

func Where(query interface{}, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func OrderBy(order string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

func Preload(association string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(association)
	}
}

type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func (p Page) Scope() Scope {
	n := p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n.Limit).Offset(n.Offset)
	}
}

// Repository is the CRUD surface shared by every table. A domain repository
// over one table embeds it; one spanning several tables keeps one per table
// in a field.
type Repository[T any] struct {
	store *Store
}

func NewRepository[T any](s *Store) *Repository[T] {
	return &Repository[T]{store: s}
}

func (r *Repository[T]) Store() *Store {
	return r.store
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.store.Conn(ctx).Create(entity).Error
}

func (r *Repository[T]) CreateMany(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.store.Conn(ctx).CreateInBatches(entities, 100).Error
}

func (r *Repository[T]) FindOne(ctx context.Context, scopes ...Scope) (*T, error) {
	var entity T
	if err := r.store.Conn(ctx).Scopes(scopes...).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id int64, scopes ...Scope) (*T, error) {
	return r.FindOne(ctx, append(scopes, Where("id = ?", id))...)
}

func (r *Repository[T]) FindMany(ctx context.Context, scopes ...Scope) ([]*T, error) {
	var entities []*T
	if err := r.store.Conn(ctx).Scopes(scopes...).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *Repository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	err := r.store.Conn(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error
	return n, err
}

func (r *Repository[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	n, err := r.Count(ctx, scopes...)
	return n > 0, err
}

func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	return r.store.Conn(ctx).Save(entity).Error
}

// UpdateMany applies values to every row matched by scopes and returns the
// number of rows changed.
func (r *Repository[T]) UpdateMany(ctx context.Context, values map[string]interface{}, scopes ...Scope) (int64, error) {
	res := r.store.Conn(ctx).Model(new(T)).Scopes(scopes...).Updates(values)
	return res.RowsAffected, res.Error
}

func (r *Repository[T]) Delete(ctx context.Context, scopes ...Scope) (int64, error) {
	res := r.store.Conn(ctx).Scopes(scopes...).Delete(new(T))
	return res.RowsAffected, res.Error
}
