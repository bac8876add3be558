// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package coerce converts URL path segments into typed values.
package coerce

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/openapi"
	"github.com/z5labs/typedroutes/registry"
	"github.com/z5labs/typedroutes/schema"

	"github.com/google/uuid"
)

// ParseError is returned when a path value can not be parsed into its
// target type. At the request boundary it maps to a 400 response.
type ParseError struct {
	Value  string
	Target string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("coerce: failed to parse %q as %s", e.Value, e.Target)
}

// UnroutableTypeError is returned when a declared parameter type has no
// registered converter.
type UnroutableTypeError struct {
	Type schema.Type
}

func (e UnroutableTypeError) Error() string {
	return fmt.Sprintf("coerce: no path converter is registered for %s", e.Type)
}

// ParseFunc parses one URL path segment.
type ParseFunc func(string) (any, error)

// Converter pairs a parse function with ordered documentation metadata.
// Converters are value objects; [Converter.Equal] is used to detect
// conflicting parameter declarations across the methods of one route.
type Converter struct {
	parse    ParseFunc
	source   reflect.Type
	metadata []any
	members  []Converter
}

// NewConverter returns a converter parsing values with parse. The
// source type records the converter's provenance for equality checks
// and error messages. Metadata values should be [openapi.ParameterInfo]
// or [schema.Extra] values; they are walked in order when the parameter
// is documented.
func NewConverter(parse ParseFunc, source reflect.Type, metadata ...any) Converter {
	return Converter{
		parse:    parse,
		source:   source,
		metadata: slices.Clone(metadata),
	}
}

// Parse converts a path value. Union converters try each member in
// declaration order and return the first success. A member failing with
// a [ParseError] moves on to the next member; any other error aborts
// the union immediately.
func (c Converter) Parse(value string) (any, error) {
	if len(c.members) == 0 {
		return c.parse(value)
	}

	for _, m := range c.members {
		v, err := m.Parse(value)
		if err == nil {
			return v, nil
		}

		var perr ParseError
		if errors.As(err, &perr) {
			continue
		}
		return nil, err
	}
	return nil, ParseError{Value: value, Target: c.Target()}
}

// Metadata returns the converter's documentation metadata in order. For
// union converters this is the concatenation of the member metadata
// followed by anything attached to the union itself.
func (c Converter) Metadata() []any {
	return slices.Clone(c.metadata)
}

// WithMetadata returns a copy of c with md appended to its metadata.
func (c Converter) WithMetadata(md ...any) Converter {
	if len(md) == 0 {
		return c
	}
	meta := make([]any, 0, len(c.metadata)+len(md))
	meta = append(meta, c.metadata...)
	meta = append(meta, md...)
	c.metadata = meta
	return c
}

// Target names what the converter parses into.
func (c Converter) Target() string {
	if len(c.members) == 0 {
		if c.source == nil {
			return "unknown"
		}
		return c.source.String()
	}

	targets := make([]string, len(c.members))
	for i, m := range c.members {
		targets[i] = m.Target()
	}
	return "union[" + strings.Join(targets, " | ") + "]"
}

// Equal reports whether c and other convert values identically. Plain
// converters compare their parse function identity, source type and
// metadata. Union converters compare member-wise.
func (c Converter) Equal(other Converter) bool {
	if len(c.members) != len(other.members) {
		return false
	}
	if len(c.members) > 0 {
		for i := range c.members {
			if !c.members[i].Equal(other.members[i]) {
				return false
			}
		}
		return true
	}

	return reflect.ValueOf(c.parse).Pointer() == reflect.ValueOf(other.parse).Pointer() &&
		c.source == other.source &&
		reflect.DeepEqual(c.metadata, other.metadata)
}

// SetOptions are configurable parameters of a [Set].
type SetOptions struct {
	trueStrings  map[string]struct{}
	falseStrings map[string]struct{}
}

// SetOption sets a value on [SetOptions].
type SetOption interface {
	ApplySetOption(*SetOptions)
}

type setOptionFunc func(*SetOptions)

func (f setOptionFunc) ApplySetOption(so *SetOptions) {
	f(so)
}

// WithBoolStrings configures string values which the boolean converter
// accepts directly. Both sets default to empty, in which case booleans
// only parse from base 10 integers.
func WithBoolStrings(trueStrings, falseStrings []string) SetOption {
	return setOptionFunc(func(so *SetOptions) {
		for _, s := range trueStrings {
			so.trueStrings[s] = struct{}{}
		}
		for _, s := range falseStrings {
			so.falseStrings[s] = struct{}{}
		}
	})
}

// Set resolves declared parameter types to their path converters. The
// zero value is not usable; construct one with [NewSet].
type Set struct {
	trueStrings  map[string]struct{}
	falseStrings map[string]struct{}
	converters   *registry.Registry[Converter]
}

// NewSet returns a [Set] with converters registered for bool, int64,
// float64, string, [typedroutes.Date], [time.Time], [uuid.UUID],
// [typedroutes.IPv4], [typedroutes.IPv6] and [typedroutes.Null].
func NewSet(opts ...SetOption) *Set {
	so := &SetOptions{
		trueStrings:  make(map[string]struct{}),
		falseStrings: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt.ApplySetOption(so)
	}

	s := &Set{
		trueStrings:  so.trueStrings,
		falseStrings: so.falseStrings,
	}
	s.converters = registry.New(s.registerDefaults)
	return s
}

func (s *Set) registerDefaults(r *registry.Registry[Converter]) {
	builtin := []struct {
		key   reflect.Type
		parse ParseFunc
		info  openapi.ParameterInfo
	}{
		{
			key:   reflect.TypeFor[bool](),
			parse: s.parseBool,
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "boolean"}},
		},
		{
			key:   reflect.TypeFor[int64](),
			parse: parseInt,
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "integer"}},
		},
		{
			key:   reflect.TypeFor[float64](),
			parse: parseFloat,
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "number"}},
		},
		{
			key:   reflect.TypeFor[string](),
			parse: parseString,
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "string"}},
		},
		{
			key:   reflect.TypeFor[typedroutes.Date](),
			parse: adapt(ParseDate),
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "string", "format": "date"}},
		},
		{
			key:   reflect.TypeFor[time.Time](),
			parse: adapt(ParseDateTime),
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "string", "format": "date-time"}},
		},
		{
			key:   reflect.TypeFor[uuid.UUID](),
			parse: parseUUID,
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "string", "format": "uuid"}},
		},
		{
			key:   reflect.TypeFor[typedroutes.IPv4](),
			parse: adapt(parseIPv4),
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "string", "format": "ipv4"}},
		},
		{
			key:   reflect.TypeFor[typedroutes.IPv6](),
			parse: adapt(parseIPv6),
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "string", "format": "ipv6"}},
		},
		{
			key:   reflect.TypeFor[typedroutes.Null](),
			parse: parseNull,
			info:  openapi.ParameterInfo{Schema: map[string]any{"type": "null"}},
		},
	}

	for _, b := range builtin {
		r.MustSet(b.key, Converter{
			parse:    b.parse,
			source:   b.key,
			metadata: []any{b.info},
		})
	}
}

// Register adds a converter for key. Registering an already known key
// shadows the builtin converter.
func (s *Set) Register(key reflect.Type, c Converter) error {
	return s.converters.Set(key, c)
}

// Rebuild discards user registered converters and restores the
// defaults.
func (s *Set) Rebuild() {
	s.converters.Rebuild()
}

// Resolve returns the converter for a declared parameter type.
//
// Annotation layers are stripped off the declared type and their
// extras appended to the resolved converter's metadata. Unions resolve
// one converter per member, wrapped in a union converter carrying the
// concatenated member metadata. Everything else resolves through the
// converter registry by its [reflect.Type] key.
func (s *Set) Resolve(t schema.Type) (Converter, error) {
	if t.IsZero() {
		return Converter{}, schema.TypeRequiredError{}
	}

	bare, extras := unwrap(t)

	var c Converter
	switch bare.Kind() {
	case schema.KindScalar:
		var err error
		c, err = s.lookup(bare)
		if err != nil {
			return Converter{}, err
		}
	case schema.KindUnion:
		elems := bare.Elems()
		members := make([]Converter, len(elems))
		var metadata []any
		for i, m := range elems {
			mc, err := s.resolveMember(m)
			if err != nil {
				return Converter{}, err
			}
			members[i] = mc
			metadata = append(metadata, mc.metadata...)
		}
		c = Converter{
			members:  members,
			metadata: metadata,
		}
	default:
		return Converter{}, UnroutableTypeError{Type: bare}
	}

	md := make([]any, len(extras))
	for i, extra := range extras {
		md[i] = extra
	}
	return c.WithMetadata(md...), nil
}

// resolveMember resolves one union member. Annotation layers on the
// member itself are stripped and their extras dropped; only scalar
// members are routable.
func (s *Set) resolveMember(t schema.Type) (Converter, error) {
	bare, _ := unwrap(t)
	if bare.Kind() != schema.KindScalar {
		return Converter{}, UnroutableTypeError{Type: bare}
	}
	return s.lookup(bare)
}

func (s *Set) lookup(t schema.Type) (Converter, error) {
	c, err := s.converters.Get(t.GoType())
	if err != nil {
		var nrErr registry.NotRegisteredError
		if errors.As(err, &nrErr) {
			return Converter{}, UnroutableTypeError{Type: t}
		}
		return Converter{}, err
	}
	return c, nil
}

// unwrap strips annotation layers off t, returning the bare type and
// the extras in inner to outer order.
func unwrap(t schema.Type) (schema.Type, []schema.Extra) {
	if t.Kind() != schema.KindAnnotated {
		return t, nil
	}
	inner, extras := unwrap(t.Elems()[0])
	if e := t.Extras(); len(e) > 0 {
		extras = append(extras, e)
	}
	return inner, extras
}
