// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

// Package query builds parameterized WHERE clauses for catalog listings.
package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder collects AND-joined conditions and their bind arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("series", "Scarlet & Violet").AddSince("recorded_at", since)
//	where, args := wb.BuildWithPrefix()
//	// WHERE series = ? AND recorded_at >= ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?" unless value is empty.
// column must be a trusted identifier, never user input.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddIn adds "column IN (?, ...)" unless values is empty.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// AddSince adds "column >= ?" unless since is zero.
func (wb *WhereBuilder) AddSince(column string, since time.Time) *WhereBuilder {
	if since.IsZero() {
		return wb
	}
	return wb.AddClause(column+" >= ?", since)
}

// Build returns the AND-joined clause without the WHERE keyword, or "1=1".
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}
