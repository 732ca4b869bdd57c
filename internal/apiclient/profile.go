package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/skillvine/frontend/internal/api"
)

const IDFileField = "id_file"

func (s *Session) Profile(ctx context.Context) (*api.ProfileView, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/profile", "", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var view api.ProfileView
	if err := resp.DecodeJSON(&view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Session) ChangeName(ctx context.Context, fullName string) error {
	return s.postJSON(ctx, "/api/change_name", api.ChangeNameRequest{FullName: fullName})
}

func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.postJSON(ctx, "/api/change_password", api.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
}

func (s *Session) RequestEmailVerification(ctx context.Context) error {
	return s.postJSON(ctx, "/api/request_email_verification", nil)
}

func (s *Session) SetViewAs(ctx context.Context, viewAs string, save bool) error {
	return s.postJSON(ctx, "/api/view_as", api.ViewAsRequest{ViewAs: viewAs, Save: save})
}

// UploadID sends an identity document as the id_file part of a multipart form.
func (s *Session) UploadID(ctx context.Context, filename string, file io.Reader) error {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(IDFileField, filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, "/api/upload_id", mw.FormDataContentType(), body)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *Session) postJSON(ctx context.Context, path string, payload any) error {
	resp, err := s.doJSON(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return resp.Err()
}
