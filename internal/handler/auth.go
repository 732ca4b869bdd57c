package handler

import (
	"net/http"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/controller"
	"github.com/skillvine/frontend/shared/logger"
)

type signupPage struct {
	Form  *controller.SignupForm
	Roles []string
}

type loginPage struct {
	Email       string
	Password    controller.Field
	SubmitLabel string
}

type welcomePage struct {
	FullName string
	Role     string
}

func (h *Handler) signupData(form *controller.SignupForm) signupPage {
	return signupPage{Form: form, Roles: h.Rules.Roles()}
}

func (h *Handler) SignupGetHandler(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(w, r, true)
	h.render(w, r, p, "signup.html", h.signupData(&controller.SignupForm{}))
}

func (h *Handler) SignupPostHandler(w http.ResponseWriter, r *http.Request) {
	form := &controller.SignupForm{
		FullName: formValue(r, "full_name"),
		Email:    formValue(r, "email"),
		Role:     formValue(r, "role"),
	}
	form.InputPassword(r.FormValue("password"))
	form.InputConfirm(r.FormValue("confirm_password"))

	p := h.newPage(w, r, false)
	s, err := h.session(r)
	if err != nil {
		logger.Log.Error("opening backend session", "error", err)
		p.apply(controller.Result{Status: http.StatusInternalServerError, Error: controller.MsgSignupNetwork})
		h.render(w, r, p, "signup.html", h.signupData(form))
		return
	}

	res := h.signup.Submit(r.Context(), s, p.notices, form.Request(), form.Confirm.Value)
	forwardCookies(w, s)
	p.apply(res)

	switch {
	case res.Welcome != nil:
		h.render(w, r, p, "welcome.html", welcomePage{FullName: res.Welcome.FullName, Role: res.Welcome.Role})
	case res.Navigation != nil:
		h.render(w, r, p, "redirect.html", nil)
	default:
		// passwords are never echoed back into the page
		form.InputPassword("")
		form.InputConfirm("")
		h.render(w, r, p, "signup.html", h.signupData(form))
	}
}

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(w, r, true)
	h.render(w, r, p, "login.html", loginPage{SubmitLabel: controller.LabelLogin})
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	req := api.LoginRequest{
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
	}

	p := h.newPage(w, r, false)
	s, err := h.session(r)
	if err != nil {
		logger.Log.Error("opening backend session", "error", err)
		p.apply(controller.Result{Status: http.StatusInternalServerError, Error: controller.MsgLoginNetwork})
		h.render(w, r, p, "login.html", loginPage{Email: req.Email, SubmitLabel: controller.LabelLogin})
		return
	}

	key := browserKey(r)
	submit := h.controls.get(key, controller.LabelLogin)
	res := h.login.Submit(r.Context(), s, p.notices, submit, req)
	h.controls.release(key, submit)
	forwardCookies(w, s)
	p.apply(res)

	if res.Navigation != nil {
		h.render(w, r, p, "redirect.html", nil)
		return
	}
	h.render(w, r, p, "login.html", loginPage{Email: req.Email, SubmitLabel: controller.LabelLogin})
}
