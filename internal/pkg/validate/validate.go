// Package validate adapts ozzo-validation results into the API's field error list.
package validate

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/pkg/apperror"
)

// Struct runs validation.ValidateStruct and converts its result.
func Struct(structPtr interface{}, fields ...*validation.FieldRules) error {
	return Wrap("", validation.ValidateStruct(structPtr, fields...))
}

// Wrap converts an ozzo-validation error into *apperror.ValidationError.
// Field names are prefixed with prefix ("skills" -> "skills[0].name").
// Errors that are not validation results are returned unchanged.
func Wrap(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var fields []apperror.FieldError
	if !collect(prefix, err, &fields) {
		return err
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &apperror.ValidationError{Fields: fields}
}

func collect(prefix string, err error, out *[]apperror.FieldError) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for key, inner := range verrs {
			if inner == nil {
				continue
			}
			if !collect(join(prefix, key), inner, out) {
				*out = append(*out, apperror.FieldError{Field: join(prefix, key), Message: inner.Error()})
			}
		}
		return true
	}
	var ierr validation.InternalError
	if errors.As(err, &ierr) {
		return false
	}
	var verr validation.Error
	if errors.As(err, &verr) {
		field := prefix
		if field == "" {
			field = "body"
		}
		*out = append(*out, apperror.FieldError{Field: field, Message: verr.Error()})
		return true
	}
	return false
}

func join(prefix, key string) string {
	if prefix == "" {
		if _, err := strconv.Atoi(key); err == nil {
			return "[" + key + "]"
		}
		return key
	}
	if _, err := strconv.Atoi(key); err == nil {
		return prefix + "[" + key + "]"
	}
	return prefix + "." + key
}

// In builds an enum membership rule with a readable message.
func In(allowed []string) validation.Rule {
	values := make([]interface{}, len(allowed))
	for i, v := range allowed {
		values[i] = v
	}
	return validation.In(values...).Error("must be one of: " + strings.Join(allowed, ", "))
}
