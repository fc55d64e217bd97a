package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator"
)

// tagNamePattern matches the tag names the backend accepts.
var tagNamePattern = regexp.MustCompile(`^[a-z0-9\-_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tagNamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// FieldErrors maps form field names to user-facing messages.
// Produced by local validation before any network call, or assembled from a
// server-reported detail (e.g. a duplicate tag name) so forms can attach the
// message to the offending field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "invalid input"
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for a field, or "" when the field is valid.
func (fe FieldErrors) Field(name string) string {
	return fe[name]
}

// CheckStruct validates any of the entity or payload structs above against
// its `validate` tags. Returns FieldErrors keyed by the struct field's JSON
// name, or nil when the value is valid.
func CheckStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		fe[jsonFieldName(e.Field())] = messageFor(e.Tag(), e.Param())
	}
	return fe
}

// CheckTagName validates a candidate tag name for the tag-creation form.
func CheckTagName(name string) error {
	switch {
	case name == "":
		return FieldErrors{"tag": "tag name is required"}
	case len(name) > 64:
		return FieldErrors{"tag": "tag name must be at most 64 characters"}
	case !tagNamePattern.MatchString(name):
		return FieldErrors{"tag": "tag names may only contain lowercase letters, digits, '-' and '_'"}
	}
	return nil
}

func messageFor(tag, param string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "must be a well-formed URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "min":
		return fmt.Sprintf("must be at least %s", param)
	case "tagname":
		return "tag names may only contain lowercase letters, digits, '-' and '_'"
	default:
		return fmt.Sprintf("failed %q validation", tag)
	}
}

// jsonFieldName converts a Go struct field name to its JSON form.
// The entity structs keep the two aligned up to capitalization, so
// lower-casing the leading run of capitals is enough (ID -> id, URL -> url,
// CollectionID -> collectionId).
func jsonFieldName(field string) string {
	switch field {
	case "ID", "URL":
		return strings.ToLower(field)
	case "CollectionID":
		return "collectionId"
	case "TagName":
		return "tagName"
	case "UsageCount":
		return "usageCount"
	case "BookmarksCount":
		return "bookmarksCount"
	default:
		return strings.ToLower(field[:1]) + field[1:]
	}
}
