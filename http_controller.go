package auth

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/nyaruka/phonenumbers"
)

// RegisterAuthRoutes mounts the auth surface for one principal kind
// under the given router group, e.g. /api/v1/users or /api/v1/sellers.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Signup, controller.Signup).
		SetName(controller.routeName("signup.post"))

	app.
		Get(
			fmt.Sprintf("%s/:token", controller.Routes.EmailConfirmation),
			controller.EmailConfirmation,
		).
		SetName(controller.routeName("email-confirmation.get"))

	app.
		Post(controller.Routes.Login, controller.Login).
		SetName(controller.routeName("login.post"))

	app.
		Get(controller.Routes.Logout, controller.Logout).
		SetName(controller.routeName("logout.get"))

	if controller.Pipeline != nil {
		app.
			Get(controller.Routes.Me, controller.Pipeline.Protect()(controller.Me)).
			SetName(controller.routeName("me.get"))
	}
}

type AuthControllerRoutes struct {
	Signup            string
	EmailConfirmation string
	Login             string
	Logout            string
	Me                string
}

// AuthController exposes signup, confirmation, and session endpoints
// for a single principal kind. Mount one per kind.
type AuthController struct {
	Debug    bool
	Logger   Logger
	Repo     RepositoryManager
	Store    Principals
	Verifier CredentialVerifier
	Sessions *RouteSessions
	Tokens   *ConfirmationTokens
	Mailer   Mailer
	Config   Config
	Pipeline *Pipeline
	Routes   *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup:            "/signup",
			EmailConfirmation: "/emailConfirmation",
			Login:             "/login",
			Logout:            "/logout",
			Me:                "/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Store == nil {
		panic("Missing Principals store in auth controller...")
	}

	if c.Verifier == nil {
		c.Verifier = NewPrincipalVerifier(c.Store).WithLogger(c.Logger)
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	if c.Sessions == nil {
		panic("Missing RouteSessions in auth controller...")
	}

	if c.Tokens == nil {
		c.Tokens = NewConfirmationTokens(time.Duration(c.Config.GetConfirmationTTL()) * time.Minute)
	}

	if c.Mailer == nil {
		c.Mailer = NewLogMailer(c.Logger)
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerStore(store Principals) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Store = store
		return c
	}
}

func WithControllerVerifier(verifier CredentialVerifier) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Verifier = verifier
		return c
	}
}

func WithControllerSessions(sessions *RouteSessions) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sessions = sessions
		return c
	}
}

func WithControllerTokens(tokens *ConfirmationTokens) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithControllerMailer(mailer Mailer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Mailer = mailer
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// WithControllerPipeline enables the authenticated session routes
func WithControllerPipeline(pipeline *Pipeline) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Pipeline = pipeline
		return c
	}
}

func (a *AuthController) routeName(suffix string) string {
	return fmt.Sprintf("%s.%s", a.Store.Kind(), suffix)
}

// SignupPayload is the registration body
type SignupPayload struct {
	FirstName       string `form:"firstName" json:"firstName"`
	LastName        string `form:"lastName" json:"lastName"`
	Email           string `form:"email" json:"email"`
	Photo           string `form:"photo" json:"photo"`
	Phone           string `form:"phone" json:"phone"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"passwordConfirm" json:"passwordConfirm"`
}

// Validate will run validation rules
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.PasswordConfirm,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) Signup(ctx router.Context) error {
	payload := new(SignupPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload: ", "error", err)
		return WriteError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: ", "error", err)
		return WriteError(ctx, validationError(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP =====")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	var resp *SignupResponse

	signup := NewSignupHandler(a.Repo, a.Store, a.Tokens, a.Mailer, a.Config).
		WithLogger(a.Logger)

	err := signup.Execute(ctx.Context(), SignupMessage{
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		Email:           payload.Email,
		Photo:           payload.Photo,
		Phone:           payload.Phone,
		Password:        payload.Password,
		PasswordConfirm: payload.PasswordConfirm,
		OnResponse: func(r *SignupResponse) {
			resp = r
		},
	})

	if err != nil {
		a.Logger.Error("signup execute: ", "error", err, "email", payload.Email)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"status":  "success",
		"message": resp.Message,
	})
}

func (a *AuthController) EmailConfirmation(ctx router.Context) error {
	token := ctx.Param("token", "")

	var principal *PrincipalRecord

	confirm := NewConfirmAccountHandler(a.Store, a.Tokens).WithLogger(a.Logger)

	err := confirm.Execute(ctx.Context(), ConfirmAccountMessage{
		Token: token,
		OnResponse: func(p *PrincipalRecord) {
			principal = p
		},
	})

	if err != nil {
		a.Logger.Error("email confirmation execute: ", "error", err)
		return WriteError(ctx, err)
	}

	return a.Sessions.Issue(ctx, principal, router.StatusOK)
}

// LoginPayload is the credential body
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return WriteError(ctx, ErrMissingCredentials)
	}

	if payload.Email == "" || payload.Password == "" {
		return WriteError(ctx, ErrMissingCredentials)
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, validationError(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{"email": payload.Email}))
		fmt.Println("=========================")
	}

	principal, err := a.Verifier.VerifyIdentity(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login verify identity: ", "error", err, "email", payload.Email)
		return WriteError(ctx, err)
	}

	return a.Sessions.Issue(ctx, principal, router.StatusOK)
}

func (a *AuthController) Logout(ctx router.Context) error {
	return a.Sessions.Logout(ctx)
}

// Me returns the authenticated principal together with the decoded
// session view. It runs behind Protect, so the attached identity and
// claims are already verified.
func (a *AuthController) Me(ctx router.Context) error {
	principal, ok := PrincipalFromRouterContext(ctx, a.Config.GetContextKey())
	if !ok {
		return WriteError(ctx, ErrNotAuthenticated)
	}

	claims, ok := ClaimsFromRouterContext(ctx)
	if !ok {
		return WriteError(ctx, ErrNotAuthenticated)
	}

	session, err := SessionFromClaims(claims)
	if err != nil {
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"status": "success",
		"data": map[string]any{
			"user":    principal,
			"session": session,
		},
	})
}

// validationError wraps an ozzo validation result as a rich bad input
// error, carrying the per-field breakdown as metadata
func validationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{
			"fields": FormatValidationErrorToMap(err),
		})
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidatePhoneNumber accepts an empty value or a parseable, valid
// phone number. Numbers without a country code are read as US.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return errors.New("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}

	return nil
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["payload"] = err.Error()
		}
		return out
	}

	for field, ferr := range verrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}

	return out
}
