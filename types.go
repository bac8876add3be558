// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package typedroutes

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// Date is a calendar date with no time of day attached. It exists as its
// own type, rather than a truncated [time.Time], so dates and datetimes
// remain distinguishable when used as registry keys or path parameter types.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{
		Year:  year,
		Month: month,
		Day:   day,
	}
}

// String formats the date as an RFC 3339 full-date, e.g. "2025-08-04".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TimeOfDay is a wall clock time with no date attached.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// TimeOfDayOf returns the wall clock reading of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}
}

// String formats the time as an RFC 3339 partial-time, e.g. "02:56:32"
// or "02:56:32.123456" when a fractional second is present.
func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond == 0 {
		return s
	}

	frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
	return s + "." + frac
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IPv4 is an IPv4 address. [netip.Addr] covers both address families
// with one type; the distinct wrappers let the two families register
// separate converters and schema fragments.
type IPv4 struct {
	netip.Addr
}

// ParseIPv4 parses s as an IPv4 address.
func ParseIPv4(s string) (IPv4, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return IPv4{}, err
	}
	if !addr.Is4() {
		return IPv4{}, fmt.Errorf("not an IPv4 address: %q", s)
	}
	return IPv4{Addr: addr}, nil
}

// IPv6 is an IPv6 address, including IPv4-mapped forms.
type IPv6 struct {
	netip.Addr
}

// ParseIPv6 parses s as an IPv6 address. Zone suffixes are supported.
func ParseIPv6(s string) (IPv6, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return IPv6{}, err
	}
	if addr.Is4() {
		return IPv6{}, fmt.Errorf("not an IPv6 address: %q", s)
	}
	return IPv6{Addr: addr}, nil
}

// Null is the JSON null value. A path parameter declared as Null accepts
// any text and always parses to nil.
type Null struct{}

// MarshalJSON implements the [json.Marshaler] interface.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
