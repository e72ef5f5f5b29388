package contact

import (
	"sort"
	"strings"
)

const (
	msgRequired    = "This field is required."
	msgNull        = "This field may not be null."
	msgNotString   = "Not a valid string."
	msgNullChars   = "Null characters are not allowed."
	msgBlank       = "This field may not be blank."
	msgEmail       = "Enter a valid email address."
	msgMaxLength   = "Ensure this field has no more than %s characters."
	msgInvalid     = "Invalid value."
	msgNotAnObject = "Invalid data. Expected a dictionary."

	// NonFieldErrors is the key for errors that belong to the whole body.
	NonFieldErrors = "non_field_errors"
)

// FieldErrors maps a field name to its validation messages. It is the only
// error detail ever shown to API callers.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(fe[f], " "))
	}
	return "invalid contact submission: " + strings.Join(parts, "; ")
}
