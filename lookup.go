package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// PrincipalLookup resolves a principal id across an ordered list of
// repositories. The first repository that has the id wins.
type PrincipalLookup struct {
	repos  []Principals
	logger Logger
}

// NewPrincipalLookup builds a lookup over the given repositories. The
// argument order is the consultation order.
func NewPrincipalLookup(repos ...Principals) *PrincipalLookup {
	return &PrincipalLookup{
		repos:  repos,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger
func (l *PrincipalLookup) WithLogger(logger Logger) *PrincipalLookup {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// ByID returns the first principal matching id. A miss in every
// repository yields ErrIdentityNotFound; repository faults propagate.
func (l *PrincipalLookup) ByID(ctx context.Context, id string) (*PrincipalRecord, error) {
	for _, repo := range l.repos {
		record, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "principal lookup failed").
				WithMetadata(map[string]any{"kind": repo.Kind()})
		}
		return record, nil
	}

	l.logger.Debug("principal lookup miss", "id", id)
	return nil, ErrIdentityNotFound
}
