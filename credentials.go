package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// PrincipalVerifier verifies credentials against one principal
// repository. Unknown email, inactive account, and wrong password all
// collapse into the same ErrMismatchedHashAndPassword so responses
// cannot be used to enumerate accounts.
type PrincipalVerifier struct {
	store  Principals
	logger Logger
}

// NewPrincipalVerifier will create a verifier over the given repository
func NewPrincipalVerifier(store Principals) *PrincipalVerifier {
	return &PrincipalVerifier{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger
func (v *PrincipalVerifier) WithLogger(logger Logger) *PrincipalVerifier {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// VerifyIdentity will find the principal by email and compare the
// submitted password to the stored hash.
func (v *PrincipalVerifier) VerifyIdentity(ctx context.Context, email, password string) (*PrincipalRecord, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	record, err := v.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve principal during verification")
	}

	if !record.Active {
		v.logger.Debug("login attempt against inactive principal", "kind", v.store.Kind())
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, record.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return record, nil
}

var _ CredentialVerifier = (*PrincipalVerifier)(nil)
