// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
	"github.com/tomtom215/tcgvault/internal/validation"
)

// sanitizeLogValue escapes control characters so request input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON sends a JSON response with an ETag. Admin responses are never
// cached by clients.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// generateETag hashes the body with FNV-1a.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondError sends an error response. A non-nil err is logged, never
// returned to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorWithData(w, status, &models.APIError{Code: code, Message: message}, nil, err)
}

func respondErrorWithData(w http.ResponseWriter, status int, apiErr *models.APIError, data interface{}, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(apiErr.Code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// validateRequest runs the struct's validate tags and converts failures to
// a VALIDATION_ERROR with one detail entry per field.
//
//	req := RunsRequest{Limit: getIntParam(r, "limit", 20)}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondErrorWithData(w, http.StatusBadRequest, apiErr, nil, nil)
//	    return
//	}
func validateRequest(v interface{}) *models.APIError {
	err := validation.ValidateStruct(v)
	if err == nil {
		return nil
	}

	apiErr := &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
	}

	var structErr *validation.StructError
	if errors.As(err, &structErr) {
		apiErr.Details = make(map[string]interface{}, len(structErr.Fields))
		for _, f := range structErr.Fields {
			apiErr.Details[f.Field] = f.Message
		}
	}
	return apiErr
}

// getIntParam reads an integer query parameter. Unparseable values fall back
// to defaultValue.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBoolParam(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && b
}
