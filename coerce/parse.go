// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"strconv"
	"time"

	"github.com/z5labs/typedroutes"

	"github.com/google/uuid"
)

// adapt lifts a typed parse function into a [ParseFunc].
func adapt[T any](f func(string) (T, error)) ParseFunc {
	return func(value string) (any, error) {
		v, err := f(value)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// parseBool consults the configured true and false string sets first
// and otherwise parses value as a base 10 integer, treating any
// nonzero value as true. There is no silent default: anything else
// fails.
func (s *Set) parseBool(value string) (any, error) {
	if _, ok := s.trueStrings[value]; ok {
		return true, nil
	}
	if _, ok := s.falseStrings[value]; ok {
		return false, nil
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, ParseError{Value: value, Target: "int64"}
	}
	return n != 0, nil
}

func parseInt(value string) (any, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, ParseError{Value: value, Target: "int64"}
	}
	return n, nil
}

func parseFloat(value string) (any, error) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, ParseError{Value: value, Target: "float64"}
	}
	return n, nil
}

func parseString(value string) (any, error) {
	return value, nil
}

func parseUUID(value string) (any, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, ParseError{Value: value, Target: "uuid.UUID"}
	}
	return id, nil
}

func parseIPv4(value string) (typedroutes.IPv4, error) {
	addr, err := typedroutes.ParseIPv4(value)
	if err != nil {
		return typedroutes.IPv4{}, ParseError{Value: value, Target: "typedroutes.IPv4"}
	}
	return addr, nil
}

func parseIPv6(value string) (typedroutes.IPv6, error) {
	addr, err := typedroutes.ParseIPv6(value)
	if err != nil {
		return typedroutes.IPv6{}, ParseError{Value: value, Target: "typedroutes.IPv6"}
	}
	return addr, nil
}

// parseNull accepts anything. It exists so the null member of a union
// type, e.g. the equivalent of an optional parameter, is routable.
func parseNull(string) (any, error) {
	return nil, nil
}

// datetimeLayouts are tried in order. Full ISO 8601 forms come first,
// with T or space separators, optional seconds, fractions and offsets,
// and the compact basic format. The shortened year, year-month and
// compact year-month forms bring up the rear.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04Z0700",
	"2006-01-02 15:04",
	"20060102T150405.999999999Z07:00",
	"20060102T150405.999999999Z0700",
	"20060102T150405.999999999",
	"20060102T1504Z07:00",
	"20060102T1504Z0700",
	"20060102T1504",
	"2006-01-02",
	"20060102",
	"2006-01",
	"2006",
	"200601",
}

// ParseDateTime parses an ISO 8601 timestamp, accepting the shortened
// year, year-month and compact date forms as well. Values without an
// offset are anchored to UTC.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, ParseError{Value: value, Target: "time.Time"}
}

// ParseDate parses value with [ParseDateTime] and discards the time of
// day.
func ParseDate(value string) (typedroutes.Date, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return typedroutes.Date{}, err
	}
	return typedroutes.DateOf(t), nil
}
