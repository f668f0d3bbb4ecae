package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes the principal repositories in lookup
// order: users first, then sellers.
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Principals
	Sellers() Principals
	Ordered() []Principals
}

type mngr struct {
	db      *bun.DB
	users   Principals
	sellers Principals
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		users:   NewUsersRepository(db),
		sellers: NewSellersRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.sellers == nil {
		return errors.New("repository sellers should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Principals {
	return m.users
}

func (m mngr) Sellers() Principals {
	return m.sellers
}

// Ordered returns the repositories in the order PrincipalLookup
// consults them. The ordering is deliberate configuration, not an
// inline assumption.
func (m mngr) Ordered() []Principals {
	return []Principals{m.users, m.sellers}
}
