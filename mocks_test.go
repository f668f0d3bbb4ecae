package auth_test

import (
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"time"

	auth "github.com/goliatone/go-principal"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockPrincipals implements auth.Principals
type MockPrincipals struct {
	mock.Mock
	KindName string
}

func (m *MockPrincipals) Kind() string {
	if m.KindName != "" {
		return m.KindName
	}
	return auth.RoleUser
}

func (m *MockPrincipals) GetByID(ctx context.Context, id string) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*auth.PrincipalRecord)
	return record, args.Error(1)
}

func (m *MockPrincipals) GetByEmail(ctx context.Context, email string) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, email)
	record, _ := args.Get(0).(*auth.PrincipalRecord)
	return record, args.Error(1)
}

func (m *MockPrincipals) GetByConfirmationHash(ctx context.Context, hash string, now time.Time) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, hash, now)
	record, _ := args.Get(0).(*auth.PrincipalRecord)
	return record, args.Error(1)
}

func (m *MockPrincipals) Create(ctx context.Context, record *auth.PrincipalRecord) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, record)
	created, _ := args.Get(0).(*auth.PrincipalRecord)
	return created, args.Error(1)
}

func (m *MockPrincipals) CreateTx(ctx context.Context, tx bun.IDB, record *auth.PrincipalRecord) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, tx, record)
	created, _ := args.Get(0).(*auth.PrincipalRecord)
	return created, args.Error(1)
}

func (m *MockPrincipals) Save(ctx context.Context, record *auth.PrincipalRecord) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, record)
	saved, _ := args.Get(0).(*auth.PrincipalRecord)
	return saved, args.Error(1)
}

func (m *MockPrincipals) SaveTx(ctx context.Context, tx bun.IDB, record *auth.PrincipalRecord) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, tx, record)
	saved, _ := args.Get(0).(*auth.PrincipalRecord)
	return saved, args.Error(1)
}

func (m *MockPrincipals) HardDelete(ctx context.Context, record *auth.PrincipalRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// FakeRepositoryManager implements auth.RepositoryManager over mock
// repositories. RunInTx invokes the callback with a zero transaction,
// which is enough for handlers that only forward it to the store.
type FakeRepositoryManager struct {
	UsersRepo   auth.Principals
	SellersRepo auth.Principals
	TxErr       error
}

func (f *FakeRepositoryManager) Validate() error { return nil }
func (f *FakeRepositoryManager) MustValidate()   {}

func (f *FakeRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	if f.TxErr != nil {
		return f.TxErr
	}
	return fn(ctx, bun.Tx{})
}

func (f *FakeRepositoryManager) Users() auth.Principals   { return f.UsersRepo }
func (f *FakeRepositoryManager) Sellers() auth.Principals { return f.SellersRepo }

func (f *FakeRepositoryManager) Ordered() []auth.Principals {
	return []auth.Principals{f.UsersRepo, f.SellersRepo}
}

// MockMailer implements auth.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(ctx context.Context, principal *auth.PrincipalRecord, confirmationURL string) error {
	args := m.Called(ctx, principal, confirmationURL)
	return args.Error(0)
}

// MockVerifier implements auth.CredentialVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyIdentity(ctx context.Context, email, password string) (*auth.PrincipalRecord, error) {
	args := m.Called(ctx, email, password)
	record, _ := args.Get(0).(*auth.PrincipalRecord)
	return record, args.Error(1)
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryValues(key string) []string {
	args := m.Called(key)
	vals, _ := args.Get(0).([]string)
	return vals
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	merged, _ := args.Get(0).(map[string]any)
	return merged
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	header, _ := args.Get(0).(*multipart.FileHeader)
	return header, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	params, _ := args.Get(0).(map[string]string)
	return params
}
