package handler

import (
	"errors"
	"net/http"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/controller"
	"github.com/skillvine/frontend/internal/notice"
	"github.com/skillvine/frontend/shared/logger"
	"github.com/skillvine/frontend/shared/validation"
)

const msgLoginRequired = "Please log in to continue"

type profilePage struct {
	Profile *api.ProfileView
	Roles   []string
}

type profileAction func(s *apiclient.Session, notices *notice.Service, r *http.Request) controller.Result

func (h *Handler) ProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	h.runProfile(w, r, true, nil)
}

func (h *Handler) ChangeNameHandler(w http.ResponseWriter, r *http.Request) {
	h.runProfile(w, r, false, func(s *apiclient.Session, n *notice.Service, r *http.Request) controller.Result {
		return h.profile.ChangeName(r.Context(), s, n, formValue(r, "full_name"))
	})
}

func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	h.runProfile(w, r, false, func(s *apiclient.Session, n *notice.Service, r *http.Request) controller.Result {
		return h.profile.ChangePassword(r.Context(), s, n, r.FormValue("old_password"), r.FormValue("new_password"))
	})
}

func (h *Handler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	h.runProfile(w, r, false, func(s *apiclient.Session, n *notice.Service, r *http.Request) controller.Result {
		return h.profile.RequestEmailVerification(r.Context(), s, n)
	})
}

func (h *Handler) UploadIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.MultipartForm == nil {
		if err := validation.ValidateAndParseMultipart(r, w, h.maxUpload); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, validation.ErrPayloadTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			p := h.newPage(w, r, false)
			p.apply(controller.Result{Status: status, Error: "Upload failed: " + err.Error()})
			h.render(w, r, p, "profile.html", profilePage{Roles: h.Rules.Roles()})
			return
		}
	}

	h.runProfile(w, r, false, func(s *apiclient.Session, n *notice.Service, r *http.Request) controller.Result {
		file, header, err := r.FormFile(apiclient.IDFileField)
		if err != nil {
			// an empty file input is submitted as a plain value, not a file
			return h.profile.UploadID(r.Context(), s, n, "", nil)
		}
		defer file.Close()
		return h.profile.UploadID(r.Context(), s, n, header.Filename, file)
	})
}

func (h *Handler) ViewAsHandler(w http.ResponseWriter, r *http.Request) {
	h.runProfile(w, r, false, func(s *apiclient.Session, n *notice.Service, r *http.Request) controller.Result {
		return h.profile.ApplyViewAs(r.Context(), s, n, formValue(r, "view_as"), formBool(r, "save"))
	})
}

// runProfile runs one profile action, or none for a plain page load, and
// renders the profile page. Actions
// that do not reload the profile get it loaded here so the page reflects the
// backend's state.
func (h *Handler) runProfile(w http.ResponseWriter, r *http.Request, withFlash bool, action profileAction) {
	p := h.newPage(w, r, withFlash)
	s, err := h.session(r)
	if err != nil {
		logger.Log.Error("opening backend session", "error", err)
		p.apply(controller.Result{Status: http.StatusInternalServerError, Error: controller.MsgProfileNetwork})
		h.render(w, r, p, "profile.html", profilePage{Roles: h.Rules.Roles()})
		return
	}

	res := controller.Result{Status: http.StatusOK}
	if action != nil {
		res = action(s, p.notices, r)
	}
	if res.Profile == nil {
		loaded := h.profile.Load(r.Context(), s)
		switch {
		case !loaded.Failed():
			res.Profile = loaded.Profile
		case !res.Failed():
			res = loaded
		}
	}
	forwardCookies(w, s)

	if res.Profile == nil && res.Status == http.StatusUnauthorized && r.Method == http.MethodGet {
		h.Flashes.Set(w, msgLoginRequired)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		p.notices.Close()
		return
	}

	p.apply(res)
	h.render(w, r, p, "profile.html", profilePage{Profile: res.Profile, Roles: h.Rules.Roles()})
}
