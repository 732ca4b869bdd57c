package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noticeMessage(t *testing.T, s *notice.Service) string {
	t.Helper()
	n, ok := s.Current()
	if !ok {
		return ""
	}
	assert.Equal(t, notice.Success, n.Kind)
	return n.Message
}

func TestProfile_Load(t *testing.T) {
	t.Run("snapshot", func(t *testing.T) {
		backend := &MockProfileBackend{}

		res := NewProfile().Load(context.Background(), backend)

		require.False(t, res.Failed())
		require.NotNil(t, res.Profile)
		assert.Equal(t, "Ada", res.Profile.FullName)
	})

	t.Run("rejected", func(t *testing.T) {
		backend := &MockProfileBackend{
			MockProfile: func() (*api.ProfileView, error) {
				return nil, &apiclient.StatusError{StatusCode: http.StatusUnauthorized, Body: "login required"}
			},
		}

		res := NewProfile().Load(context.Background(), backend)

		assert.Equal(t, "401 login required", res.Error)
		assert.Equal(t, http.StatusUnauthorized, res.Status)
		assert.Nil(t, res.Profile)
	})

	t.Run("transport", func(t *testing.T) {
		backend := &MockProfileBackend{
			MockProfile: func() (*api.ProfileView, error) { return nil, errors.New("eof") },
		}

		res := NewProfile().Load(context.Background(), backend)

		assert.Equal(t, MsgProfileNetwork, res.Error)
		assert.Equal(t, http.StatusBadGateway, res.Status)
	})
}

func TestProfile_Actions(t *testing.T) {
	tests := []struct {
		name      string
		run       func(*Profile, ProfileBackend, *notice.Service) Result
		wantCalls []string
		wantAck   string
	}{
		{
			name: "change name reloads",
			run: func(c *Profile, b ProfileBackend, n *notice.Service) Result {
				return c.ChangeName(context.Background(), b, n, "Grace")
			},
			wantCalls: []string{"POST /api/change_name", "GET /api/profile"},
			wantAck:   "Name saved",
		},
		{
			name: "change password",
			run: func(c *Profile, b ProfileBackend, n *notice.Service) Result {
				return c.ChangePassword(context.Background(), b, n, "old", "new")
			},
			wantCalls: []string{"POST /api/change_password"},
			wantAck:   "Password changed",
		},
		{
			name: "request email verification",
			run: func(c *Profile, b ProfileBackend, n *notice.Service) Result {
				return c.RequestEmailVerification(context.Background(), b, n)
			},
			wantCalls: []string{"POST /api/request_email_verification"},
			wantAck:   "Verification email requested. Check logs if email not sent.",
		},
		{
			name: "upload id reloads",
			run: func(c *Profile, b ProfileBackend, n *notice.Service) Result {
				return c.UploadID(context.Background(), b, n, "id.png", strings.NewReader("png"))
			},
			wantCalls: []string{"POST /api/upload_id", "GET /api/profile"},
			wantAck:   "Uploaded. Verification will be processed by admin.",
		},
		{
			name: "view as",
			run: func(c *Profile, b ProfileBackend, n *notice.Service) Result {
				return c.ApplyViewAs(context.Background(), b, n, "teacher", false)
			},
			wantCalls: []string{"POST /api/view_as", "GET /api/profile"},
			wantAck:   "View-as updated",
		},
		{
			name: "view as saved",
			run: func(c *Profile, b ProfileBackend, n *notice.Service) Result {
				return c.ApplyViewAs(context.Background(), b, n, "teacher", true)
			},
			wantCalls: []string{"POST /api/view_as", "GET /api/profile"},
			wantAck:   "View-as updated and saved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &MockProfileBackend{}
			notices := newNotices(t)

			res := tt.run(NewProfile(), backend, notices)

			require.False(t, res.Failed(), res.Error)
			assert.Equal(t, tt.wantCalls, backend.Calls())
			assert.Equal(t, tt.wantAck, noticeMessage(t, notices))
			if len(tt.wantCalls) > 1 {
				assert.NotNil(t, res.Profile)
			}
		})
	}
}

func TestProfile_ActionArguments(t *testing.T) {
	var name, oldPw, newPw, viewAs, filename, content string
	var save bool
	backend := &MockProfileBackend{
		MockChangeName:     func(fullName string) error { name = fullName; return nil },
		MockChangePassword: func(o, n string) error { oldPw, newPw = o, n; return nil },
		MockSetViewAs:      func(v string, s bool) error { viewAs, save = v, s; return nil },
		MockUploadID: func(fn string, file io.Reader) error {
			filename = fn
			b, _ := io.ReadAll(file)
			content = string(b)
			return nil
		},
	}
	c := NewProfile()
	ctx := context.Background()

	c.ChangeName(ctx, backend, newNotices(t), "Grace")
	c.ChangePassword(ctx, backend, newNotices(t), "old", "new")
	c.ApplyViewAs(ctx, backend, newNotices(t), "teacher", true)
	c.UploadID(ctx, backend, newNotices(t), "id.png", strings.NewReader("png"))

	assert.Equal(t, "Grace", name)
	assert.Equal(t, "old", oldPw)
	assert.Equal(t, "new", newPw)
	assert.Equal(t, "teacher", viewAs)
	assert.True(t, save)
	assert.Equal(t, "id.png", filename)
	assert.Equal(t, "png", content)
}

func TestProfile_Failures(t *testing.T) {
	rejected := &apiclient.StatusError{StatusCode: http.StatusBadRequest, Body: "name too long"}

	t.Run("rejected action does not reload", func(t *testing.T) {
		backend := &MockProfileBackend{MockChangeName: func(string) error { return rejected }}
		notices := newNotices(t)

		res := NewProfile().ChangeName(context.Background(), backend, notices, "x")

		assert.Equal(t, "400 name too long", res.Error)
		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Equal(t, []string{"POST /api/change_name"}, backend.Calls())
		assert.Equal(t, 0, notices.Count())
	})

	t.Run("upload failure", func(t *testing.T) {
		backend := &MockProfileBackend{
			MockUploadID: func(string, io.Reader) error {
				return &apiclient.StatusError{StatusCode: http.StatusRequestEntityTooLarge, Body: "file too large"}
			},
		}

		res := NewProfile().UploadID(context.Background(), backend, newNotices(t), "big.png", strings.NewReader("x"))

		assert.Equal(t, "Upload failed: file too large", res.Error)
		assert.Equal(t, http.StatusRequestEntityTooLarge, res.Status)
	})

	t.Run("upload without file", func(t *testing.T) {
		backend := &MockProfileBackend{}

		res := NewProfile().UploadID(context.Background(), backend, newNotices(t), "", nil)

		assert.Equal(t, "Choose a file", res.Error)
		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Empty(t, backend.Calls())
	})

	t.Run("backend markup is stripped", func(t *testing.T) {
		backend := &MockProfileBackend{
			MockSetViewAs: func(string, bool) error {
				return &apiclient.StatusError{StatusCode: http.StatusForbidden, Body: "<script>x()</script>forbidden"}
			},
		}

		res := NewProfile().ApplyViewAs(context.Background(), backend, newNotices(t), "admin", false)

		assert.Equal(t, "403 forbidden", res.Error)
	})

	t.Run("transport", func(t *testing.T) {
		backend := &MockProfileBackend{MockRequestEmailVerification: func() error { return errors.New("reset") }}

		res := NewProfile().RequestEmailVerification(context.Background(), backend, newNotices(t))

		assert.Equal(t, MsgProfileNetwork, res.Error)
	})
}
