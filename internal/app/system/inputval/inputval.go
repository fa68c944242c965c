// internal/app/system/inputval/inputval.go

// Package inputval validates form input structs via struct tags.
//
// Supported tags on string fields:
//
//	validate:"required"        field must be non-blank after trimming
//	validate:"required,max=N"  additionally capped at N characters
//	label:"periodo"            name reported back to the user
//
// Validation failures name the offending field so forms can re-render with
// a precise message.
//
// Example:
//
//	type newPlanInput struct {
//	    Period string `validate:"required" label:"periodo"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//	    data.Error = result.First()
//	    // re-render form
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string // struct field name
	Label   string // label tag, falling back to the field name
	Message string // user-facing message
}

// Result collects the failures for one struct, in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "" when none.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Missing returns the labels of all fields that failed the required rule.
func (r Result) Missing() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Label)
	}
	return out
}

// Validate checks the exported string fields of v (a struct or pointer to
// struct) against their validate tags.
func Validate(v any) Result {
	var res Result

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("validate")
		if tag == "" || f.Type.Kind() != reflect.String {
			continue
		}

		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		val := rv.Field(i).String()

		for _, rule := range strings.Split(tag, ",") {
			switch {
			case rule == "required":
				if strings.TrimSpace(val) == "" {
					res.Errors = append(res.Errors, FieldError{
						Field:   f.Name,
						Label:   label,
						Message: "Campo obrigatório não preenchido: " + label,
					})
				}
			case strings.HasPrefix(rule, "max="):
				n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
				if err != nil {
					continue
				}
				if utf8.RuneCountInString(val) > n {
					res.Errors = append(res.Errors, FieldError{
						Field:   f.Name,
						Label:   label,
						Message: fmt.Sprintf("%s deve ter no máximo %d caracteres.", label, n),
					})
				}
			}
		}
	}
	return res
}
