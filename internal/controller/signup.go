package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/skillvine/frontend/internal/redirect"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/skillvine/frontend/shared/config"
	"github.com/skillvine/frontend/shared/logger"
)

const (
	MsgSignupFailed     = "Signup failed."
	MsgSignupNetwork    = "Network or server error. Try again."
	MsgAutoLoginFailed  = "Registered, but auto-login failed. Login manually."
	MsgRegistered       = "Registered successfully"
	welcomeDelay        = 1800 * time.Millisecond
	registeredDelay     = 1500 * time.Millisecond
	registeredNoticeDur = 2 * time.Second
)

type SignupConfig struct {
	// AutoLogin logs the user in right after registering and shows the
	// welcome page. Without it the user is sent to the login page.
	AutoLogin bool
	// Identifier is the field the automatic login sends with the password.
	Identifier      string
	DefaultRedirect string
	LoginRedirect   string
	AllowedHosts    []string
}

type Signup struct {
	rules   *rules.Rules
	cfg     SignupConfig
	welcome redirect.Policy
	manual  redirect.Policy
}

func NewSignup(r *rules.Rules, cfg SignupConfig) *Signup {
	if cfg.Identifier == "" {
		cfg.Identifier = config.IdentifierFullName
	}
	if cfg.DefaultRedirect == "" {
		cfg.DefaultRedirect = "/dashboard"
	}
	if cfg.LoginRedirect == "" {
		cfg.LoginRedirect = "/login"
	}
	return &Signup{
		rules:   r,
		cfg:     cfg,
		welcome: redirect.New(cfg.DefaultRedirect, cfg.AllowedHosts...),
		manual:  redirect.New(cfg.LoginRedirect, cfg.AllowedHosts...),
	}
}

// Submit registers the user. Nothing is sent when the form is invalid, and
// the login step only runs after the backend accepted the registration.
func (c *Signup) Submit(ctx context.Context, backend AuthBackend, notices *notice.Service, req api.RegistrationRequest, confirmation string) Result {
	if err := c.rules.Registration(&req, confirmation); err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}

	resp, err := backend.Signup(ctx, req)
	if err != nil {
		logger.Log.Error("signup request", "error", err)
		return failure(http.StatusBadGateway, MsgSignupNetwork)
	}
	if !resp.OK() {
		logger.Log.Warn("signup rejected", "status", resp.StatusCode)
		return failure(rejectionStatus(resp.StatusCode), signupRejection(resp))
	}

	target := resp.JSONRedirect()

	if !c.cfg.AutoLogin {
		notices.Show(MsgRegistered, notice.Success, registeredNoticeDur)
		res := ok()
		res.Navigation = &Navigation{
			URL:   c.manual.Resolve(redirect.Source{JSONRedirect: target}),
			After: registeredDelay,
		}
		return res
	}

	login := api.AutoLoginRequest{Password: req.Password}
	if c.cfg.Identifier == config.IdentifierEmail {
		login.Email = req.Email
	} else {
		login.FullName = req.FullName
	}
	loginResp, err := backend.LoginJSON(ctx, login)
	if err != nil || !loginResp.OK() {
		if err != nil {
			logger.Log.Error("auto-login request", "error", err)
		} else {
			logger.Log.Warn("auto-login rejected", "status", loginResp.StatusCode)
		}
		// the account exists, so this is reported but not treated as a failed signup
		return Result{Status: http.StatusOK, Error: MsgAutoLoginFailed}
	}

	res := ok()
	res.Welcome = &Welcome{FullName: req.FullName, Role: req.Role}
	res.Navigation = &Navigation{
		URL:   c.welcome.Resolve(redirect.Source{JSONRedirect: target}),
		After: welcomeDelay,
	}
	return res
}

// signupRejection reads the message of a rejected signup. A JSON body only
// contributes its "error" field; its raw text is never shown.
func signupRejection(resp *apiclient.Response) string {
	if resp.IsJSON() {
		return firstNonEmpty(resp.JSONError(), MsgSignupFailed)
	}
	return firstNonEmpty(resp.Text(), MsgSignupFailed)
}
