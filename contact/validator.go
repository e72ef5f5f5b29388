package contact

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"contactus-backend/models"
	"contactus-backend/utils"
)

// Form is a contact submission after validation. It never carries an id or
// a timestamp; those belong to the store.
type Form struct {
	Name          string `json:"name" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,max=254,email"`
	Phone         string `json:"phone" validate:"max=20"`
	Subject       string `json:"subject" validate:"required,max=100"`
	Inquiry       string `json:"inquiry" validate:"required"`
	ContactMethod string `json:"contact_method" validate:"max=20"`
}

// Submission converts the form into an unsaved record.
func (f Form) Submission() *models.ContactSubmission {
	return &models.ContactSubmission{
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		Subject:       f.Subject,
		Inquiry:       f.Inquiry,
		ContactMethod: f.ContactMethod,
	}
}

type formField struct {
	name     string
	required bool
	set      func(*Form, string)
}

// formSchema is the fixed set of accepted input keys. Anything else in the
// input mapping, including id and created_at, is ignored.
var formSchema = []formField{
	{"name", true, func(f *Form, v string) { f.Name = v }},
	{"email", true, func(f *Form, v string) { f.Email = v }},
	{"phone", false, func(f *Form, v string) { f.Phone = v }},
	{"subject", true, func(f *Form, v string) { f.Subject = v }},
	{"inquiry", true, func(f *Form, v string) { f.Inquiry = v }},
	{"contact_method", false, func(f *Form, v string) { f.ContactMethod = v }},
}

// Validator checks and normalizes untyped contact input. It holds no
// per-call state and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report errors under the json names callers sent
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate turns input into a Form. A non-nil FieldErrors means the input was
// rejected; a non-nil error means the rule engine itself failed.
func (v *Validator) Validate(input any) (Form, FieldErrors, error) {
	var form Form
	errs := FieldErrors{}

	data, ok := input.(map[string]any)
	if !ok {
		errs.Add(NonFieldErrors, msgNotAnObject)
		return form, errs, nil
	}

	for _, f := range formSchema {
		raw, present := data[f.name]
		switch {
		case !present:
			if f.required {
				errs.Add(f.name, msgRequired)
			}
		case raw == nil:
			errs.Add(f.name, msgNull)
		default:
			s, isString := raw.(string)
			if !isString || !utf8.ValidString(s) {
				errs.Add(f.name, msgNotString)
				continue
			}
			// postgres text columns cannot hold NUL
			if strings.ContainsRune(s, 0) {
				errs.Add(f.name, msgNullChars)
				continue
			}
			f.set(&form, s)
		}
	}

	utils.NormalizeDTO(&form)

	if err := v.validate.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return Form{}, nil, fmt.Errorf("validate contact form: %w", err)
		}
		for _, fe := range ve {
			// presence/type errors already explain the field
			if errs.Has(fe.Field()) {
				continue
			}
			errs.Add(fe.Field(), message(fe))
		}
	}

	if len(errs) > 0 {
		return Form{}, errs, nil
	}
	return form, nil, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgBlank
	case "max":
		return fmt.Sprintf(msgMaxLength, fe.Param())
	case "email":
		return msgEmail
	default:
		return msgInvalid
	}
}
