// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package query

import (
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	where, args := NewWhereBuilder().Build()
	if where != "1=1" {
		t.Errorf("Expected '1=1', got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("Expected no args, got %d", len(args))
	}
}

func TestWhereBuilder_SkipsEmptyValues(t *testing.T) {
	wb := NewWhereBuilder().
		AddEquals("series", "").
		AddIn("id", nil).
		AddSince("recorded_at", time.Time{})

	if where, _ := wb.Build(); where != "1=1" {
		t.Errorf("Expected empty filters to be skipped, got %q", where)
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args := NewWhereBuilder().
		AddEquals("block", "Scarlet & Violet").
		AddIn("id", []string{"sv1", "sv2"}).
		AddSince("updated_at", since).
		BuildWithPrefix()

	want := "WHERE block = ? AND id IN (?, ?) AND updated_at >= ?"
	if where != want {
		t.Errorf("Expected %q, got %q", want, where)
	}
	if len(args) != 4 {
		t.Fatalf("Expected 4 args, got %d", len(args))
	}
	if args[2] != "sv2" {
		t.Errorf("Expected third arg sv2, got %v", args[2])
	}
}
