package auth

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// SignupMessage carries a new principal registration
type SignupMessage struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Photo           string `json:"photo,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	OnResponse      func(resp *SignupResponse)
}

func (e SignupMessage) Type() string { return "principal.signup" }

// SignupResponse reports the outcome to the transport layer
type SignupResponse struct {
	Principal       *PrincipalRecord
	ConfirmationURL string
	Message         string
}

// SignupHandler creates an unconfirmed principal, stores the hashed
// confirmation token, and hands the plaintext to the mailer. A mailer
// failure triggers a best-effort compensating delete so the email
// becomes reusable.
type SignupHandler struct {
	repo   RepositoryManager
	store  Principals
	tokens *ConfirmationTokens
	mailer Mailer
	cfg    Config
	logger Logger
}

// NewSignupHandler wires the signup flow for one principal kind
func NewSignupHandler(repo RepositoryManager, store Principals, tokens *ConfirmationTokens, mailer Mailer, cfg Config) *SignupHandler {
	return &SignupHandler{
		repo:   repo,
		store:  store,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler
func (h *SignupHandler) WithLogger(logger Logger) *SignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var principal *PrincipalRecord
	var confirmation *ConfirmationToken

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.store.GetByEmail(ctx, event.Email); err == nil {
			return ErrEmailTaken
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing principal")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		confirmation, err = h.tokens.Generate()
		if err != nil {
			return err
		}

		record := &PrincipalRecord{
			FirstName:    event.FirstName,
			LastName:     event.LastName,
			Email:        event.Email,
			Photo:        event.Photo,
			Phone:        event.Phone,
			PasswordHash: hash,
		}
		record.SetConfirmationToken(confirmation)

		if id, err := hashid.NewUUID(event.Email); err == nil {
			record.ID = id
		}

		if principal, err = h.store.CreateTx(ctx, tx, record); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create principal")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	confirmationURL := h.confirmationURL(principal, confirmation.Plain)

	if err := h.mailer.SendWelcome(ctx, principal, confirmationURL); err != nil {
		h.logger.Error("welcome email dispatch failed", "error", err, "email", principal.Email)
		h.compensate(ctx, principal)

		return goerrors.Wrap(err, goerrors.CategoryInternal, MsgSignupFailed).
			WithCode(goerrors.CodeInternal)
	}

	if event.OnResponse != nil {
		event.OnResponse(&SignupResponse{
			Principal:       principal,
			ConfirmationURL: confirmationURL,
			Message:         "Token sent to your email, Verify your email.",
		})
	}

	return nil
}

// compensate removes the just-created principal after a mailer
// failure. Best effort: if the delete itself fails the orphaned
// unconfirmed row persists and surfaces as a duplicate-email rejection
// until cleaned up.
func (h *SignupHandler) compensate(ctx context.Context, principal *PrincipalRecord) {
	if err := h.store.HardDelete(ctx, principal); err != nil {
		h.logger.Error(
			"compensating delete failed, orphaned unconfirmed principal remains",
			"error", err,
			"id", principal.ID.String(),
		)
	}
}

func (h *SignupHandler) confirmationURL(principal *PrincipalRecord, plain string) string {
	return fmt.Sprintf(
		"%s/api/v1/%ss/emailConfirmation/%s",
		h.cfg.GetBaseURL(),
		h.store.Kind(),
		plain,
	)
}
