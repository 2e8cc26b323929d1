package identity

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
	Role            Role   `validate:"required,oneof=student lecturer"`
	School          string `validate:"required"`
	Course          string `validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Normalize trims every field and defaults Role to student.
func (in *RegisterInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.School = strings.TrimSpace(in.School)
	in.Course = strings.TrimSpace(in.Course)
	if in.Role == "" {
		in.Role = RoleStudent
	}
}

// Validate normalizes in and returns an AuthError of KindInvalidInput
// describing the first problem.
func (in *RegisterInput) Validate() error {
	in.Normalize()
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &AuthError{Kind: KindInvalidInput, Message: err.Error()}
	}
	return &AuthError{Kind: KindInvalidInput, Message: in.describe(verrs[0])}
}

func (in *RegisterInput) describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "ConfirmPassword":
		return "Passwords do not match"
	case "Password":
		if fe.Tag() == "min" {
			return "Password must be at least 6 characters"
		}
		return "Password is required"
	case "Email":
		return "A valid email is required"
	case "FullName":
		return "Full name is required"
	case "School":
		return "School is required"
	case "Course":
		if in.Role == RoleLecturer {
			return "Please select your department"
		}
		return "Please select your course"
	case "Role":
		return "Role must be student or lecturer"
	}
	return "Invalid " + fe.Field()
}
