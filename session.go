package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ SessionView = &SessionObject{}

// SessionView exposes the attributes of a verified session
type SessionView interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetRole() string
	GetIssuer() string
	GetAudience() []string
	GetIssuedAt() *time.Time
}

// SessionObject is the decoded, verified session token
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	UserRole       string     `json:"role,omitempty"`
	Audience       []string   `json:"audience,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetRole() string {
	return s.UserRole
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s role=%s aud=%v iss=%s iat=%s",
		s.UserID,
		s.UserRole,
		s.Audience,
		s.Issuer,
		issuedAt,
	)
}

// SessionFromClaims creates a SessionObject from verified claims
func SessionFromClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	var audience []string
	var issuer string
	if jwtClaims, ok := claims.(*JWTClaims); ok {
		issuer = jwtClaims.RegisteredClaims.Issuer
		for _, aud := range jwtClaims.RegisteredClaims.Audience {
			audience = append(audience, aud)
		}
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		UserRole:       claims.Role(),
		Audience:       audience,
		Issuer:         issuer,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
