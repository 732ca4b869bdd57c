package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/skillvine/frontend/internal/controller"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/skillvine/frontend/shared/errors"
	"github.com/skillvine/frontend/shared/utils"
)

const maxStrengthBody = 4 << 10

type strengthRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirm_password"`
}

type strengthResponse struct {
	Strength      rules.Level       `json:"strength"`
	Indicator     rules.Indicator   `json:"indicator"`
	Match         rules.MatchResult `json:"match"`
	SubmitEnabled bool              `json:"submit_enabled"`
}

// PasswordStrengthHandler scores a password and checks its confirmation for
// live form feedback. Nothing is stored or sent to the backend.
func (h *Handler) PasswordStrengthHandler(w http.ResponseWriter, r *http.Request) {
	var req strengthRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStrengthBody))
	if err := dec.Decode(&req); err != nil {
		utils.WriteErrorAndStatusCode(w, errors.New(http.StatusBadRequest, "invalid JSON body"))
		return
	}

	var form controller.SignupForm
	form.InputPassword(req.Password)
	form.InputConfirm(req.Confirmation)

	utils.WriteJSON(w, http.StatusOK, strengthResponse{
		Strength:      rules.Strength(strings.TrimSpace(req.Password)),
		Indicator:     form.Strength,
		Match:         form.Match,
		SubmitEnabled: form.SubmitEnabled(),
	})
}
