package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ConfirmAccountMessage carries the plaintext confirmation token from
// the emailed link
type ConfirmAccountMessage struct {
	Token      string `json:"token"`
	OnResponse func(principal *PrincipalRecord)
}

func (e ConfirmAccountMessage) Type() string { return "principal.confirm_account" }

// ConfirmAccountHandler consumes a one-time confirmation token: the
// stored digest is matched, the principal is marked confirmed, and the
// digest is cleared so the link cannot be replayed.
type ConfirmAccountHandler struct {
	store  Principals
	tokens *ConfirmationTokens
	logger Logger
}

// NewConfirmAccountHandler wires email confirmation for one principal kind
func NewConfirmAccountHandler(store Principals, tokens *ConfirmationTokens) *ConfirmAccountHandler {
	return &ConfirmAccountHandler{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler
func (h *ConfirmAccountHandler) WithLogger(logger Logger) *ConfirmAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ConfirmAccountHandler) Execute(ctx context.Context, event ConfirmAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account confirmation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmAccountHandler) execute(ctx context.Context, event ConfirmAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if event.Token == "" {
		return ErrConfirmationTokenInvalid
	}

	hash := HashConfirmationToken(event.Token)

	principal, err := h.store.GetByConfirmationHash(ctx, hash, h.tokens.Now())
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrConfirmationTokenInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up confirmation token")
	}

	principal.MarkEmailConfirmed()

	if _, err := h.store.Save(ctx, principal); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm account")
	}

	h.logger.Info("account confirmed", "email", principal.Email, "role", principal.Role)

	if event.OnResponse != nil {
		event.OnResponse(principal)
	}

	return nil
}
