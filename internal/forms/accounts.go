package forms

import "errors"

// LoginForm is a sign-in submission.
type LoginForm struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupForm is an account registration submission.
type SignupForm struct {
	Name     string `json:"name" validate:"max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
	Confirm  string `json:"confirm_password" validate:"eqfield=Password"`
}

// FieldMessage returns the message of the first listed field that failed
// validation in err.
func FieldMessage(err error, fields ...string) (string, bool) {
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		return "", false
	}
	for _, field := range fields {
		if message, ok := invalid.Fields[field]; ok {
			return message, true
		}
	}
	return "", false
}
