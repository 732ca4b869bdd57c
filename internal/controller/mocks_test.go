package controller

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/stretchr/testify/require"
)

type MockAuthBackend struct {
	mu    sync.Mutex
	calls []string

	MockSignup    func(req api.RegistrationRequest) (*apiclient.Response, error)
	MockLogin     func(req api.LoginRequest) (*apiclient.Response, error)
	MockLoginJSON func(req api.AutoLoginRequest) (*apiclient.Response, error)
}

func (m *MockAuthBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockAuthBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockAuthBackend) Signup(_ context.Context, req api.RegistrationRequest) (*apiclient.Response, error) {
	m.record("POST /signup")
	if m.MockSignup != nil {
		return m.MockSignup(req)
	}
	return &apiclient.Response{StatusCode: 200}, nil // Default behavior
}

func (m *MockAuthBackend) Login(_ context.Context, req api.LoginRequest) (*apiclient.Response, error) {
	m.record("POST /login")
	if m.MockLogin != nil {
		return m.MockLogin(req)
	}
	return &apiclient.Response{StatusCode: 200}, nil
}

func (m *MockAuthBackend) LoginJSON(_ context.Context, req api.AutoLoginRequest) (*apiclient.Response, error) {
	m.record("POST /login")
	if m.MockLoginJSON != nil {
		return m.MockLoginJSON(req)
	}
	return &apiclient.Response{StatusCode: 200}, nil
}

type MockProfileBackend struct {
	mu    sync.Mutex
	calls []string

	MockProfile                  func() (*api.ProfileView, error)
	MockChangeName               func(fullName string) error
	MockChangePassword           func(oldPassword, newPassword string) error
	MockRequestEmailVerification func() error
	MockUploadID                 func(filename string, file io.Reader) error
	MockSetViewAs                func(viewAs string, save bool) error
}

func (m *MockProfileBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockProfileBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockProfileBackend) Profile(context.Context) (*api.ProfileView, error) {
	m.record("GET /api/profile")
	if m.MockProfile != nil {
		return m.MockProfile()
	}
	return &api.ProfileView{Email: "ada@example.com", FullName: "Ada"}, nil
}

func (m *MockProfileBackend) ChangeName(_ context.Context, fullName string) error {
	m.record("POST /api/change_name")
	if m.MockChangeName != nil {
		return m.MockChangeName(fullName)
	}
	return nil
}

func (m *MockProfileBackend) ChangePassword(_ context.Context, oldPassword, newPassword string) error {
	m.record("POST /api/change_password")
	if m.MockChangePassword != nil {
		return m.MockChangePassword(oldPassword, newPassword)
	}
	return nil
}

func (m *MockProfileBackend) RequestEmailVerification(context.Context) error {
	m.record("POST /api/request_email_verification")
	if m.MockRequestEmailVerification != nil {
		return m.MockRequestEmailVerification()
	}
	return nil
}

func (m *MockProfileBackend) UploadID(_ context.Context, filename string, file io.Reader) error {
	m.record("POST /api/upload_id")
	if m.MockUploadID != nil {
		return m.MockUploadID(filename, file)
	}
	return nil
}

func (m *MockProfileBackend) SetViewAs(_ context.Context, viewAs string, save bool) error {
	m.record("POST /api/view_as")
	if m.MockSetViewAs != nil {
		return m.MockSetViewAs(viewAs, save)
	}
	return nil
}

func testRules(t *testing.T) *rules.Rules {
	t.Helper()
	r, err := rules.New([]string{"student", "teacher"})
	require.NoError(t, err)
	return r
}

func newNotices(t *testing.T) *notice.Service {
	t.Helper()
	s := notice.New()
	t.Cleanup(s.Close)
	return s
}

func jsonResponse(status int, body string) *apiclient.Response {
	return &apiclient.Response{StatusCode: status, ContentType: "application/json", Body: []byte(body)}
}

func textResponse(status int, body string) *apiclient.Response {
	return &apiclient.Response{StatusCode: status, ContentType: "text/plain; charset=utf-8", Body: []byte(body)}
}
