// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance. Filter criteria and other
// request payloads declare their closed schemas via validate tags; this
// package translates failures into human-readable messages and the API error
// format.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Error returns the human-readable message.
func (e FieldError) Error() string {
	return e.Message
}

// RequestError is a collection of field validation failures for one payload.
type RequestError struct {
	fields []FieldError
}

// Fields returns the individual field failures.
func (re *RequestError) Fields() []FieldError {
	return re.fields
}

// Error implements the error interface with a combined message.
func (re *RequestError) Error() string {
	if len(re.fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(re.fields))
	for i, fe := range re.fields {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// Details returns a map suitable for the APIError details payload.
func (re *RequestError) Details() map[string]interface{} {
	if len(re.fields) == 1 {
		fe := re.fields[0]
		return map[string]interface{}{
			"field": fe.Field,
			"tag":   fe.Tag,
			"value": fe.Value,
		}
	}

	fields := make([]map[string]interface{}, len(re.fields))
	for i, fe := range re.fields {
		fields[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
	}
	return map[string]interface{}{"fields": fields}
}

// Validator returns the singleton validator instance. Thread-safe; the
// instance caches struct metadata across calls.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates a struct against its validate tags.
// Returns nil on success or a *RequestError describing every failed field.
func Struct(s interface{}) *RequestError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translate(fe),
		}
	}
	return &RequestError{fields: fields}
}

// translate converts a validator.FieldError into a message that matches the
// API's wording.
func translate(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
