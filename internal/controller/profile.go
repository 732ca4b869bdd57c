package controller

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/skillvine/frontend/shared/logger"
)

const (
	MsgNameSaved         = "Name saved"
	MsgPasswordChanged   = "Password changed"
	MsgVerificationSent  = "Verification email requested. Check logs if email not sent."
	MsgUploaded          = "Uploaded. Verification will be processed by admin."
	MsgViewAsUpdated     = "View-as updated"
	msgViewAsSavedSuffix = " and saved"
	msgUploadFailed      = "Upload failed: "
	MsgProfileNetwork    = "Network or server error. Please try again."
)

// Profile runs the profile page actions. Actions that change what the page
// shows reload the profile afterwards instead of trusting the local change.
type Profile struct{}

func NewProfile() *Profile {
	return &Profile{}
}

func (c *Profile) Load(ctx context.Context, backend ProfileBackend) Result {
	view, err := backend.Profile(ctx)
	if err != nil {
		return actionFailure("load profile", "", err)
	}
	res := ok()
	res.Profile = view
	return res
}

func (c *Profile) ChangeName(ctx context.Context, backend ProfileBackend, notices *notice.Service, fullName string) Result {
	if err := backend.ChangeName(ctx, fullName); err != nil {
		return actionFailure("change name", "", err)
	}
	notices.Show(MsgNameSaved, notice.Success, 0)
	return c.Load(ctx, backend)
}

func (c *Profile) ChangePassword(ctx context.Context, backend ProfileBackend, notices *notice.Service, oldPassword, newPassword string) Result {
	if err := backend.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return actionFailure("change password", "", err)
	}
	notices.Show(MsgPasswordChanged, notice.Success, 0)
	return ok()
}

func (c *Profile) RequestEmailVerification(ctx context.Context, backend ProfileBackend, notices *notice.Service) Result {
	if err := backend.RequestEmailVerification(ctx); err != nil {
		return actionFailure("request email verification", "", err)
	}
	notices.Show(MsgVerificationSent, notice.Success, 0)
	return ok()
}

// UploadID sends the identity document. A nil file is rejected locally.
func (c *Profile) UploadID(ctx context.Context, backend ProfileBackend, notices *notice.Service, filename string, file io.Reader) Result {
	if file == nil {
		return failure(http.StatusBadRequest, rules.ErrNoFile.Error())
	}
	if err := backend.UploadID(ctx, filename, file); err != nil {
		return actionFailure("upload id", msgUploadFailed, err)
	}
	notices.Show(MsgUploaded, notice.Success, 0)
	return c.Load(ctx, backend)
}

func (c *Profile) ApplyViewAs(ctx context.Context, backend ProfileBackend, notices *notice.Service, viewAs string, save bool) Result {
	if err := backend.SetViewAs(ctx, viewAs, save); err != nil {
		return actionFailure("apply view-as", "", err)
	}
	msg := MsgViewAsUpdated
	if save {
		msg += msgViewAsSavedSuffix
	}
	notices.Show(msg, notice.Success, 0)
	return c.Load(ctx, backend)
}

// actionFailure turns a backend error into a page result. A rejection shows
// "<status> <body>", or prefix followed by the body when prefix is set.
func actionFailure(action, prefix string, err error) Result {
	se, ok := apiclient.AsStatusError(err)
	if !ok {
		logger.Log.Error("profile action", "action", action, "error", err)
		return failure(http.StatusBadGateway, MsgProfileNetwork)
	}

	logger.Log.Warn("profile action rejected", "action", action, "status", se.StatusCode)
	msg := plainText(se.Error())
	if prefix != "" {
		msg = strings.TrimSpace(prefix + plainText(se.Body))
	}
	return failure(rejectionStatus(se.StatusCode), msg)
}
