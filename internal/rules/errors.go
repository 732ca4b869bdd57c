package rules

// Error is a local validation failure. Its text is shown to the user as is.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingFields      Error = "Please fill all fields."
	ErrPasswordMismatch   Error = "Passwords do not match."
	ErrUnknownRole        Error = "Please choose a valid role."
	ErrMissingCredentials Error = "Please enter both email and password."
	ErrNoFile             Error = "Choose a file"
)
