// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

// Package validation wraps go-playground/validator v10 behind a singleton
// and translates field errors into short human-readable messages.
//
// It is used for configuration sections and for admin API requests:
//
//	type phaseRequest struct {
//	    Phase string `validate:"required,oneof=sets cards prices images"`
//	}
//	if err := validation.ValidateStruct(&req); err != nil {
//	    respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
//	}
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

// FieldError is a single failed validation rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error returns the translated message.
func (e FieldError) Error() string {
	return e.Message
}

// StructError collects every failed rule of one ValidateStruct call.
type StructError struct {
	Fields []FieldError
}

// Error joins all field messages.
func (e *StructError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates s and returns nil or a *StructError.
//
// The nil return is an untyped error so callers can compare with nil safely.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &StructError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &StructError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return out
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"url":      "%s must be a valid URL",
	"http_url": "%s must be a valid http(s) URL",
	"dir":      "%s must be an existing directory",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Namespace()
	if tmpl, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
