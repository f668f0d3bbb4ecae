package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Principals is the repository contract for one principal kind. The
// auth pipeline and commands depend only on this abstraction; concrete
// implementations exist per table (users, sellers).
type Principals interface {
	Kind() string
	GetByID(ctx context.Context, id string) (*PrincipalRecord, error)
	GetByEmail(ctx context.Context, email string) (*PrincipalRecord, error)
	GetByConfirmationHash(ctx context.Context, hash string, now time.Time) (*PrincipalRecord, error)
	Create(ctx context.Context, record *PrincipalRecord) (*PrincipalRecord, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *PrincipalRecord) (*PrincipalRecord, error)
	Save(ctx context.Context, record *PrincipalRecord) (*PrincipalRecord, error)
	SaveTx(ctx context.Context, tx bun.IDB, record *PrincipalRecord) (*PrincipalRecord, error)
	HardDelete(ctx context.Context, record *PrincipalRecord) error
}

type principalModel interface {
	Record() *PrincipalRecord
}

type principals[M principalModel] struct {
	repository.Repository[M]
	kind     string
	db       *bun.DB
	newModel func() M
}

var (
	_ Principals = (*principals[*User])(nil)
	_ Principals = (*principals[*Seller])(nil)
)

// NewUsersRepository returns the user-kind principal repository
func NewUsersRepository(db *bun.DB) Principals {
	return newPrincipals(db, RoleUser, func() *User { return &User{} })
}

// NewSellersRepository returns the seller-kind principal repository
func NewSellersRepository(db *bun.DB) Principals {
	return newPrincipals(db, RoleSeller, func() *Seller { return &Seller{} })
}

func newPrincipals[M principalModel](db *bun.DB, kind string, newModel func() M) *principals[M] {
	repo := repository.NewRepository[M](db, repository.ModelHandlers[M]{
		NewRecord: newModel,
		GetID: func(m M) uuid.UUID {
			return m.Record().ID
		},
		SetID: func(m M, id uuid.UUID) {
			m.Record().ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &principals[M]{
		Repository: repo,
		kind:       kind,
		db:         db,
		newModel:   newModel,
	}
}

func (r *principals[M]) Kind() string {
	return r.kind
}

func (r *principals[M]) GetByID(ctx context.Context, id string) (*PrincipalRecord, error) {
	return r.getOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}, map[string]any{"id": id})
}

func (r *principals[M]) GetByEmail(ctx context.Context, email string) (*PrincipalRecord, error) {
	return r.getOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.email = ?", email)
	}, map[string]any{"email": email})
}

// GetByConfirmationHash resolves a principal by confirmation digest,
// bounded by the stored expiry. An expired or already-cleared token
// yields a not-found, exactly like an unknown digest.
func (r *principals[M]) GetByConfirmationHash(ctx context.Context, hash string, now time.Time) (*PrincipalRecord, error) {
	return r.getOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("?TableAlias.confirmation_token_hash = ?", hash).
			Where("?TableAlias.confirmation_expires_at > ?", now)
	}, map[string]any{"confirmation_token_hash": hash})
}

func (r *principals[M]) getOne(ctx context.Context, apply func(*bun.SelectQuery) *bun.SelectQuery, meta map[string]any) (*PrincipalRecord, error) {
	model := r.newModel()
	q := apply(r.db.NewSelect().Model(model))

	if err := q.Limit(1).Scan(ctx); err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().WithMetadata(meta)
		}
		return nil, err
	}

	return model.Record(), nil
}

func (r *principals[M]) Create(ctx context.Context, record *PrincipalRecord) (*PrincipalRecord, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *principals[M]) CreateTx(ctx context.Context, tx bun.IDB, record *PrincipalRecord) (*PrincipalRecord, error) {
	model := r.newModel()
	*model.Record() = *record
	model.Record().Role = r.kind

	created, err := r.Repository.CreateTx(ctx, tx, model)
	if err != nil {
		return nil, err
	}

	return created.Record(), nil
}

func (r *principals[M]) Save(ctx context.Context, record *PrincipalRecord) (*PrincipalRecord, error) {
	return r.SaveTx(ctx, r.db, record)
}

// SaveTx writes every column of the record. A full update is what the
// confirmation flow needs: clearing the token digest must persist the
// NULL, not be skipped as a zero value.
func (r *principals[M]) SaveTx(ctx context.Context, tx bun.IDB, record *PrincipalRecord) (*PrincipalRecord, error) {
	model := r.newModel()
	*model.Record() = *record

	now := time.Now()
	model.Record().UpdatedAt = &now

	if _, err := tx.NewUpdate().Model(model).WherePK().Exec(ctx); err != nil {
		return nil, err
	}

	return model.Record(), nil
}

// HardDelete removes the row outright, bypassing soft delete. Used by
// signup's compensating action so the email is immediately reusable.
func (r *principals[M]) HardDelete(ctx context.Context, record *PrincipalRecord) error {
	model := r.newModel()
	*model.Record() = *record

	_, err := r.db.NewDelete().
		Model(model).
		WherePK().
		ForceDelete().
		Exec(ctx)

	return err
}
