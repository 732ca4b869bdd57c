package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/skillvine/frontend/internal/api"
)

// Rules validates submissions before anything is sent to the backend.
type Rules struct {
	validate *validator.Validate
	roles    []string
	allowed  map[string]struct{}
}

// New builds the rules for the given closed set of signup roles.
func New(roles []string) (*Rules, error) {
	r := &Rules{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		allowed:  make(map[string]struct{}, len(roles)),
	}
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, dup := r.allowed[role]; !dup {
			r.roles = append(r.roles, role)
		}
		r.allowed[role] = struct{}{}
	}
	if len(r.roles) == 0 {
		return nil, errors.New("at least one signup role is required")
	}

	err := r.validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return r.ValidRole(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("registering role validation: %w", err)
	}
	return r, nil
}

// Roles returns the allowed roles in configuration order.
func (r *Rules) Roles() []string {
	return append([]string(nil), r.roles...)
}

func (r *Rules) ValidRole(role string) bool {
	_, ok := r.allowed[role]
	return ok
}

// Registration normalizes req and checks it against the confirmation. Missing
// fields are reported before an unknown role, and both before a mismatch.
func (r *Rules) Registration(req *api.RegistrationRequest, confirmation string) error {
	req.Normalize()
	confirmation = strings.TrimSpace(confirmation)

	missing := confirmation == ""
	unknownRole := false
	if err := r.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				missing = true
			case "role":
				unknownRole = true
			}
		}
	}
	if missing {
		return ErrMissingFields
	}
	if unknownRole {
		return ErrUnknownRole
	}
	if req.Password != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}

// Login normalizes req and requires both credentials.
func (r *Rules) Login(req *api.LoginRequest) error {
	req.Normalize()
	if err := r.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrMissingCredentials
		}
		return err
	}
	return nil
}
