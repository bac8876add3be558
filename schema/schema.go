// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema describes Go types as OpenAPI 3.1 schema fragments.
package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/z5labs/typedroutes"

	"github.com/google/uuid"
)

// Kind identifies which form of the type grammar a [Type] value holds.
type Kind int

const (
	KindInvalid Kind = iota

	// KindScalar is a single Go type described by the fragment registry.
	KindScalar

	// KindStruct is a Go struct described via JSON schema reflection.
	KindStruct

	// KindUnion describes any one of several alternative types.
	KindUnion

	// KindArray is a homogeneous sequence.
	KindArray

	// KindTuple is a fixed-length heterogeneous sequence.
	KindTuple

	// KindMap is an object with unconstrained properties.
	KindMap

	// KindLiteral is a closed set of constant values.
	KindLiteral

	// KindAnnotated wraps another type with schema overrides.
	KindAnnotated
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	case KindLiteral:
		return "literal"
	case KindAnnotated:
		return "annotated"
	default:
		return "invalid"
	}
}

// Extra is a set of schema keys layered onto a described type with
// [Annotate]. Keys are merged into the computed description last, so
// they override whatever [Describe] produced.
type Extra map[string]any

// Type is one node of the describable type grammar. Types are immutable
// values constructed with [Of], [Union], [ArrayOf], [Tuple], [Map],
// [Struct], [Literal] and [Annotate]. The zero value is invalid.
type Type struct {
	kind   Kind
	key    reflect.Type
	elems  []Type
	values []any
	extras Extra
	id     string
}

// Of returns the scalar type keyed by T's [reflect.Type]. Whether it can
// be described depends on the fragment registry, so any T is accepted
// here.
func Of[T any]() Type {
	return scalarOf(reflect.TypeFor[T]())
}

func scalarOf(key reflect.Type) Type {
	return Type{
		kind: KindScalar,
		key:  key,
		id:   "scalar[" + typeName(key) + "]",
	}
}

// Bool is the boolean scalar.
func Bool() Type {
	return Of[bool]()
}

// Int is the integer scalar.
func Int() Type {
	return Of[int64]()
}

// Float is the number scalar.
func Float() Type {
	return Of[float64]()
}

// String is the string scalar.
func String() Type {
	return Of[string]()
}

// Date is the calendar date scalar.
func Date() Type {
	return Of[typedroutes.Date]()
}

// DateTime is the timestamp scalar.
func DateTime() Type {
	return Of[time.Time]()
}

// TimeOfDay is the wall clock time scalar.
func TimeOfDay() Type {
	return Of[typedroutes.TimeOfDay]()
}

// Duration is the ISO 8601 duration scalar.
func Duration() Type {
	return Of[time.Duration]()
}

// UUID is the UUID scalar.
func UUID() Type {
	return Of[uuid.UUID]()
}

// IPv4 is the IPv4 address scalar.
func IPv4() Type {
	return Of[typedroutes.IPv4]()
}

// IPv6 is the IPv6 address scalar.
func IPv6() Type {
	return Of[typedroutes.IPv6]()
}

// URL is the URI scalar.
func URL() Type {
	return Of[url.URL]()
}

// Null is the JSON null scalar.
func Null() Type {
	return Of[typedroutes.Null]()
}

// Union describes a value matching any one of members. Duplicate members
// are collapsed, keeping the first occurrence, and a single member union
// is the member itself. Union of nothing is the invalid type.
func Union(members ...Type) Type {
	distinct := make([]Type, 0, len(members))
	for _, m := range members {
		if slices.ContainsFunc(distinct, m.Equal) {
			continue
		}
		distinct = append(distinct, m)
	}

	switch len(distinct) {
	case 0:
		return Type{}
	case 1:
		return distinct[0]
	}

	ids := make([]string, len(distinct))
	for i, m := range distinct {
		ids[i] = m.id
	}
	return Type{
		kind:  KindUnion,
		elems: distinct,
		id:    "union[" + strings.Join(ids, " | ") + "]",
	}
}

// ArrayOf describes a homogeneous sequence. Zero elems leaves the items
// schema unconstrained. More than one elem is tolerated but only the
// first is described; see [Describe].
func ArrayOf(elems ...Type) Type {
	return Type{
		kind:  KindArray,
		elems: slices.Clone(elems),
		id:    "array[" + joinIDs(elems) + "]",
	}
}

// Tuple describes a fixed-length sequence with one schema per position.
func Tuple(elems ...Type) Type {
	return Type{
		kind:  KindTuple,
		elems: slices.Clone(elems),
		id:    "tuple[" + joinIDs(elems) + "]",
	}
}

// Map describes an object with unconstrained properties.
func Map() Type {
	return Type{
		kind: KindMap,
		id:   "map",
	}
}

// Struct returns the structured record type for the struct T, described
// by reflecting its fields into a JSON schema.
func Struct[T any]() Type {
	return StructOf(reflect.TypeFor[T]())
}

// StructOf is the non-generic form of [Struct]. Pointer types are
// unwrapped to their element type.
func StructOf(key reflect.Type) Type {
	for key != nil && key.Kind() == reflect.Pointer {
		key = key.Elem()
	}
	if key == nil {
		return Type{}
	}
	return Type{
		kind: KindStruct,
		key:  key,
		id:   "struct[" + typeName(key) + "]",
	}
}

// Literal describes a closed set of constant values. Values must be
// booleans, integers, strings or floats; anything else fails at
// describe time.
func Literal(values ...any) Type {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = literalID(v)
	}
	return Type{
		kind:   KindLiteral,
		values: slices.Clone(values),
		id:     "literal[" + strings.Join(parts, ", ") + "]",
	}
}

// Annotate layers schema keys on top of t's computed description. Later
// extras override earlier ones and outer layers override inner layers.
// Annotating with no keys returns t unchanged.
func Annotate(t Type, extras ...Extra) Type {
	merged := make(Extra)
	for _, extra := range extras {
		for k, v := range extra {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return t
	}
	return Type{
		kind:   KindAnnotated,
		elems:  []Type{t},
		extras: merged,
		id:     "annotated[" + t.id + ", " + canonicalExtra(merged) + "]",
	}
}

// Kind reports which form of the grammar t holds.
func (t Type) Kind() Kind {
	return t.kind
}

// GoType returns the underlying [reflect.Type] for scalar and struct
// types and nil for every other kind.
func (t Type) GoType() reflect.Type {
	return t.key
}

// Elems returns the member types of unions, arrays and tuples, or the
// single wrapped type of an annotated type.
func (t Type) Elems() []Type {
	return slices.Clone(t.elems)
}

// Values returns the constant values of a literal type.
func (t Type) Values() []any {
	return slices.Clone(t.values)
}

// Extras returns the schema keys of an annotated type.
func (t Type) Extras() Extra {
	if t.extras == nil {
		return nil
	}
	extra := make(Extra, len(t.extras))
	for k, v := range t.extras {
		extra[k] = v
	}
	return extra
}

// ID returns a stable identity string. Two types are interchangeable
// exactly when their IDs are equal.
func (t Type) ID() string {
	return t.id
}

// Equal reports whether t and other are the same type.
func (t Type) Equal(other Type) bool {
	return t.kind != KindInvalid && t.id == other.id
}

// IsZero reports whether t is the invalid zero value.
func (t Type) IsZero() bool {
	return t.kind == KindInvalid
}

// String implements the [fmt.Stringer] interface.
func (t Type) String() string {
	if t.kind == KindInvalid {
		return "invalid"
	}
	return t.id
}

func joinIDs(elems []Type) string {
	ids := make([]string, len(elems))
	for i, e := range elems {
		ids[i] = e.id
	}
	return strings.Join(ids, ", ")
}

func typeName(key reflect.Type) string {
	if key.PkgPath() != "" {
		return key.PkgPath() + "." + key.Name()
	}
	return key.String()
}

func literalID(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

func canonicalExtra(extra Extra) string {
	b, err := json.Marshal(map[string]any(extra))
	if err != nil {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s:%v", k, extra[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return string(b)
}
