// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package scheduler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Schedule is a parsed five-field cron expression:
// minute hour day-of-month month day-of-week.
type Schedule struct {
	expr        string
	minutes     []int // 0-59
	hours       []int // 0-23
	daysOfMonth []int // 1-31
	months      []int // 1-12
	daysOfWeek  []int // 0-6, 0 = Sunday

	anyDayOfMonth bool
	anyDayOfWeek  bool
}

// cronField bounds one position of the expression.
type cronField struct {
	name     string
	min, max int
}

var cronFields = [5]cronField{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 7},
}

// ParseSchedule parses a cron expression. Supported syntax per field:
// "*", "n", "n-m", "a,b,c", "*/s" and "n-m/s". Day-of-week 7 is Sunday.
//
//	"0 3 * * *"    daily at 03:00
//	"0 */6 * * *"  every six hours
//	"30 4 * * 1"   Mondays at 04:30
func ParseSchedule(expr string) (*Schedule, error) {
	parts := strings.Fields(expr)
	if len(parts) != len(cronFields) {
		return nil, fmt.Errorf("cron expression %q must have 5 fields, got %d", expr, len(parts))
	}

	var values [5][]int
	for i, f := range cronFields {
		v, err := parseCronField(parts[i], f.min, f.max)
		if err != nil {
			return nil, fmt.Errorf("invalid %s field in %q: %w", f.name, expr, err)
		}
		values[i] = v
	}

	dow := values[4]
	for i, d := range dow {
		if d == 7 {
			dow[i] = 0
		}
	}
	slices.Sort(dow)
	dow = slices.Compact(dow)

	return &Schedule{
		expr:          expr,
		minutes:       values[0],
		hours:         values[1],
		daysOfMonth:   values[2],
		months:        values[3],
		daysOfWeek:    dow,
		anyDayOfMonth: parts[2] == "*",
		anyDayOfWeek:  parts[4] == "*",
	}, nil
}

// String returns the source expression.
func (s *Schedule) String() string { return s.expr }

// Next returns the first minute strictly after t that matches, evaluated in
// loc (UTC when nil). A zero time means no match within four years.
func (s *Schedule) Next(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	cur := t.In(loc).Truncate(time.Minute).Add(time.Minute)

	horizon := cur.AddDate(4, 0, 0)
	for cur.Before(horizon) {
		if !slices.Contains(s.months, int(cur.Month())) {
			// jump to the first day of the next month
			cur = time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, loc)
			continue
		}
		if !s.dayMatches(cur) {
			cur = time.Date(cur.Year(), cur.Month(), cur.Day()+1, 0, 0, 0, 0, loc)
			continue
		}
		if !slices.Contains(s.hours, cur.Hour()) {
			cur = time.Date(cur.Year(), cur.Month(), cur.Day(), cur.Hour()+1, 0, 0, 0, loc)
			continue
		}
		if slices.Contains(s.minutes, cur.Minute()) {
			return cur
		}
		cur = cur.Add(time.Minute)
	}
	return time.Time{}
}

// dayMatches applies the cron rule that a restricted day-of-month and a
// restricted day-of-week are OR'd.
func (s *Schedule) dayMatches(t time.Time) bool {
	dom := slices.Contains(s.daysOfMonth, t.Day())
	dow := slices.Contains(s.daysOfWeek, int(t.Weekday()))

	switch {
	case s.anyDayOfMonth && s.anyDayOfWeek:
		return true
	case s.anyDayOfMonth:
		return dow
	case s.anyDayOfWeek:
		return dom
	default:
		return dom || dow
	}
}

func parseCronField(field string, minVal, maxVal int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(field, ",") {
		v, err := parseCronPart(part, minVal, maxVal)
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func parseCronPart(part string, minVal, maxVal int) ([]int, error) {
	rangeExpr, stepExpr, hasStep := strings.Cut(part, "/")
	step := 1
	if hasStep {
		n, err := strconv.Atoi(stepExpr)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid step %q", stepExpr)
		}
		step = n
	}

	lo, hi := minVal, maxVal
	switch {
	case rangeExpr == "*":
	case strings.Contains(rangeExpr, "-"):
		a, b, _ := strings.Cut(rangeExpr, "-")
		var err error
		if lo, err = strconv.Atoi(a); err != nil {
			return nil, fmt.Errorf("invalid range start %q", a)
		}
		if hi, err = strconv.Atoi(b); err != nil {
			return nil, fmt.Errorf("invalid range end %q", b)
		}
	default:
		n, err := strconv.Atoi(rangeExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", rangeExpr)
		}
		lo = n
		if !hasStep {
			hi = n
		}
	}

	if lo < minVal || hi > maxVal || lo > hi {
		return nil, fmt.Errorf("range %d-%d outside %d-%d", lo, hi, minVal, maxVal)
	}

	out := make([]int, 0, (hi-lo)/step+1)
	for v := lo; v <= hi; v += step {
		out = append(out, v)
	}
	return out, nil
}
