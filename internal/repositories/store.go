package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the repositories that share one database handle. Inside
// Transactor.WithinTransaction every member is bound to the same transaction.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Users      UserRepository
	Addresses  AddressRepository
	Orders     OrderRepository
}

// NewGORMRepositories binds every GORM repository to db, which may be a transaction.
func NewGORMRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Users:      NewGORMUserRepository(db),
		Addresses:  NewGORMAddressRepository(db),
		Orders:     NewGORMOrderRepository(db),
	}
}

// Transactor acquires a transaction scope, hands it to fn and releases it: commit when fn
// returns nil, rollback on error or panic.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error
}

// GORMTransactor runs fn inside a GORM transaction.
type GORMTransactor struct {
	db *gorm.DB
}

func NewGORMTransactor(db *gorm.DB) *GORMTransactor {
	return &GORMTransactor{db: db}
}

func (t *GORMTransactor) WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepositories(tx))
	})
	return translateError(err)
}
