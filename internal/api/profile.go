package api

import (
	"bytes"
	"encoding/json"
)

const (
	DefaultVerificationStatus = "Not Requested"
	DefaultViewAs             = "student"
)

// TeacherVerification is the latest identity-verification request. The
// backend sends either a bare status string or {"status", "id_path"}.
type TeacherVerification struct {
	Status string `json:"status"`
	IDPath string `json:"id_path,omitempty"`
}

func (v *TeacherVerification) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &v.Status)
	}
	type plain TeacherVerification
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = TeacherVerification(p)
	return nil
}

// ProfileView is the read-only snapshot returned by GET /api/profile.
type ProfileView struct {
	Email               string               `json:"email"`
	EmailVerified       bool                 `json:"email_verified"`
	FullName            string               `json:"full_name"`
	TeacherVerification *TeacherVerification `json:"teacher_verification"`
	ViewAs              string               `json:"view_as"`
	Role                string               `json:"role"`
}

func (p ProfileView) EmailLabel() string {
	if p.EmailVerified {
		return p.Email + " (verified)"
	}
	return p.Email + " (unverified)"
}

func (p ProfileView) VerificationStatus() string {
	if p.TeacherVerification == nil || p.TeacherVerification.Status == "" {
		return DefaultVerificationStatus
	}
	return p.TeacherVerification.Status
}

// EffectiveViewAs is the role the user currently previews the site as.
func (p ProfileView) EffectiveViewAs() string {
	switch {
	case p.ViewAs != "":
		return p.ViewAs
	case p.Role != "":
		return p.Role
	default:
		return DefaultViewAs
	}
}
