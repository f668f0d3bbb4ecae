package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PrincipalRecord carries the fields shared by every principal kind.
// It is embedded by the concrete bun models below and is what the auth
// pipeline attaches to a request. The password hash and confirmation
// digest never serialize.
type PrincipalRecord struct {
	ID                    uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role                  PrincipalRole `bun:"role,notnull" json:"role,omitempty"`
	FirstName             string        `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName              string        `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email                 string        `bun:"email,notnull,unique" json:"email,omitempty"`
	Photo                 string        `bun:"photo" json:"photo,omitempty"`
	Phone                 string        `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash          string        `bun:"password_hash" json:"-"`
	PasswordChangedAt     *time.Time    `bun:"password_changed_at,nullzero" json:"-"`
	EmailConfirmed        bool          `bun:"email_confirmed" json:"email_confirmed"`
	Active                bool          `bun:"active" json:"active"`
	ConfirmationTokenHash string        `bun:"confirmation_token_hash,nullzero" json:"-"`
	ConfirmationExpiresAt *time.Time    `bun:"confirmation_expires_at,nullzero" json:"-"`
	CreatedAt             *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt             *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt             *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// User is the principal stored in the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	PrincipalRecord
}

// Seller is the principal stored in the sellers table
type Seller struct {
	bun.BaseModel `bun:"table:sellers,alias:slr"`
	PrincipalRecord
}

// Record exposes the shared principal fields
func (u *User) Record() *PrincipalRecord { return &u.PrincipalRecord }

// Record exposes the shared principal fields
func (s *Seller) Record() *PrincipalRecord { return &s.PrincipalRecord }

// FullName joins the name fields for display use
func (p *PrincipalRecord) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ChangedPasswordAfter reports whether the password changed after the
// given instant. Tokens issued before a password change are stale.
func (p *PrincipalRecord) ChangedPasswordAfter(issuedAt time.Time) bool {
	if p.PasswordChangedAt == nil {
		return false
	}
	return p.PasswordChangedAt.After(issuedAt)
}

// SetConfirmationToken stores the digest/expiry pair, overwriting any
// previous token. Only one confirmation token is live per principal.
func (p *PrincipalRecord) SetConfirmationToken(token *ConfirmationToken) {
	p.ConfirmationTokenHash = token.Hash
	expires := token.ExpiresAt
	p.ConfirmationExpiresAt = &expires
}

// ClearConfirmationToken removes the stored digest/expiry, making the
// plaintext permanently unusable.
func (p *PrincipalRecord) ClearConfirmationToken() {
	p.ConfirmationTokenHash = ""
	p.ConfirmationExpiresAt = nil
}

// MarkEmailConfirmed flips the principal to confirmed and active and
// retires the confirmation token.
func (p *PrincipalRecord) MarkEmailConfirmed() {
	p.EmailConfirmed = true
	p.Active = true
	p.ClearConfirmationToken()
}

// Identity adapts the record to the Identity interface consumed by the
// token service.
func (p *PrincipalRecord) Identity() Identity {
	return principalIdentity{
		id:    p.ID.String(),
		email: p.Email,
		role:  p.Role,
	}
}

type principalIdentity struct {
	id    string
	email string
	role  string
}

func (a principalIdentity) ID() string    { return a.id }
func (a principalIdentity) Email() string { return a.email }
func (a principalIdentity) Role() string  { return a.role }

var _ Identity = principalIdentity{}
