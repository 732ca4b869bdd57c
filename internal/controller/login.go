package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/skillvine/frontend/internal/redirect"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/skillvine/frontend/shared/logger"
)

const (
	LabelLogin        = "Login"
	LabelLoggingIn    = "Logging in..."
	MsgInvalidLogin   = "Invalid email or password"
	MsgLoginNetwork   = "Network or server error. Please try again."
	MsgWelcomeBack    = "Welcome back!"
	MsgLoginInFlight  = "Login already in progress."
	loginDelay        = 3 * time.Second
	loginNoticeLength = 3 * time.Second
)

type Login struct {
	rules  *rules.Rules
	policy redirect.Policy
}

func NewLogin(r *rules.Rules, policy redirect.Policy) *Login {
	return &Login{rules: r, policy: policy}
}

// Submit logs the user in. submit is disabled for the duration of the backend
// call and always handed back enabled.
func (c *Login) Submit(ctx context.Context, backend AuthBackend, notices *notice.Service, submit *Control, req api.LoginRequest) Result {
	if err := c.rules.Login(&req); err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}

	if !submit.TryDisable(LabelLoggingIn) {
		return failure(http.StatusConflict, MsgLoginInFlight)
	}
	defer submit.Enable(LabelLogin)

	resp, err := backend.Login(ctx, req)
	if err != nil {
		logger.Log.Error("login request", "error", err)
		return failure(http.StatusBadGateway, MsgLoginNetwork)
	}
	if !resp.OK() {
		logger.Log.Warn("login rejected", "status", resp.StatusCode)
		var msg string
		if resp.IsJSON() {
			msg = firstNonEmpty(resp.JSONError(), MsgInvalidLogin)
		} else {
			msg = firstNonEmpty(resp.Text(), MsgInvalidLogin)
		}
		return failure(rejectionStatus(resp.StatusCode), msg)
	}

	src := redirect.Source{
		Redirected: resp.Redirected,
		FinalURL:   resp.FinalURL,
		Location:   resp.Location,
	}
	if resp.IsJSON() {
		src.JSONRedirect = resp.JSONRedirect()
	}

	notices.Show(MsgWelcomeBack, notice.Success, loginNoticeLength)
	res := ok()
	res.Navigation = &Navigation{URL: c.policy.Resolve(src), After: loginDelay}
	return res
}
