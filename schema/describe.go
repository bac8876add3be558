// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/concurrent"
	"github.com/z5labs/typedroutes/registry"

	"github.com/google/uuid"
	"github.com/swaggest/jsonschema-go"
)

// TypeRequiredError is returned when the invalid zero [Type] is
// described.
type TypeRequiredError struct{}

func (TypeRequiredError) Error() string {
	return "schema: a type value is required"
}

// UndescribableTypeError is returned when a type value falls outside
// the describable grammar, for example a scalar with no registered
// fragment or a literal of an unsupported value.
type UndescribableTypeError struct {
	Type Type
}

func (e UndescribableTypeError) Error() string {
	return fmt.Sprintf("schema: %s is not describable", e.Type)
}

// Fragment is a partial JSON schema keyed by a Go type.
type Fragment map[string]any

var fragments = registry.New(func(r *registry.Registry[Fragment]) {
	builtin := []struct {
		key      reflect.Type
		fragment Fragment
	}{
		{reflect.TypeFor[bool](), Fragment{"type": "boolean"}},
		{reflect.TypeFor[int](), Fragment{"type": "integer"}},
		{reflect.TypeFor[int64](), Fragment{"type": "integer"}},
		{reflect.TypeFor[float64](), Fragment{"type": "number"}},
		{reflect.TypeFor[string](), Fragment{"type": "string"}},
		{reflect.TypeFor[typedroutes.Date](), Fragment{"type": "string", "format": "date"}},
		{reflect.TypeFor[time.Time](), Fragment{"type": "string", "format": "date-time"}},
		{reflect.TypeFor[typedroutes.TimeOfDay](), Fragment{"type": "string", "format": "time"}},
		{reflect.TypeFor[time.Duration](), Fragment{"type": "string", "format": "duration"}},
		{reflect.TypeFor[uuid.UUID](), Fragment{"type": "string", "format": "uuid"}},
		{reflect.TypeFor[typedroutes.IPv4](), Fragment{"type": "string", "format": "ipv4"}},
		{reflect.TypeFor[typedroutes.IPv6](), Fragment{"type": "string", "format": "ipv6"}},
		{reflect.TypeFor[url.URL](), Fragment{"type": "string", "format": "uri"}},
		{reflect.TypeFor[typedroutes.Null](), Fragment{"type": "null"}},
	}
	for _, b := range builtin {
		r.MustSet(b.key, b.fragment)
	}
})

// RegisterFragment maps a Go type to the schema fragment describing it.
// Fragments registered for an interface type also cover every type
// implementing it, with the most recently registered match winning.
func RegisterFragment(key reflect.Type, fragment Fragment) error {
	clone := make(Fragment, len(fragment))
	for k, v := range fragment {
		clone[k] = v
	}
	return fragments.Set(key, clone)
}

type describeKey struct {
	generation uint64
	id         string
}

var descriptions = concurrent.NewCache[describeKey, map[string]any]()

// Describe computes the OpenAPI schema for t. Results are memoized per
// type identity and each call returns a fresh copy the caller may
// mutate.
func Describe(t Type) (map[string]any, error) {
	key := describeKey{
		generation: fragments.Generation(),
		id:         t.id,
	}
	desc, err := descriptions.GetOr(key, func() (map[string]any, error) {
		return describe(t)
	})
	if err != nil {
		return nil, err
	}
	return copyDescription(desc), nil
}

func describe(t Type) (map[string]any, error) {
	switch t.kind {
	case KindAnnotated:
		desc, err := describe(t.elems[0])
		if err != nil {
			return nil, err
		}
		for k, v := range t.extras {
			desc[k] = v
		}
		return desc, nil
	case KindUnion:
		descs := make([]any, len(t.elems))
		for i, m := range t.elems {
			desc, err := describe(m)
			if err != nil {
				return nil, err
			}
			descs[i] = desc
		}
		return map[string]any{"anyOf": descs}, nil
	case KindLiteral:
		return describeLiteral(t)
	case KindScalar:
		fragment, err := fragments.Get(t.key)
		if err != nil {
			return nil, UndescribableTypeError{Type: t}
		}
		desc := make(map[string]any, len(fragment))
		for k, v := range fragment {
			desc[k] = v
		}
		return desc, nil
	case KindStruct:
		return describeStruct(t)
	case KindMap:
		return map[string]any{"type": "object"}, nil
	case KindArray:
		return describeArray(t)
	case KindTuple:
		return describeTuple(t)
	case KindInvalid:
		return nil, TypeRequiredError{}
	default:
		return nil, UndescribableTypeError{Type: t}
	}
}

func describeLiteral(t Type) (map[string]any, error) {
	options := make([]any, len(t.values))
	for i, v := range t.values {
		desc, err := literalFragment(v)
		if err != nil {
			return nil, UndescribableTypeError{Type: t}
		}
		desc["const"] = v
		options[i] = desc
	}

	switch len(options) {
	case 0:
		return nil, UndescribableTypeError{Type: t}
	case 1:
		return options[0].(map[string]any), nil
	default:
		return map[string]any{"anyOf": options}, nil
	}
}

func literalFragment(v any) (map[string]any, error) {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	default:
		return nil, UndescribableTypeError{}
	}
}

func describeStruct(t Type) (map[string]any, error) {
	if t.key.Kind() != reflect.Struct {
		return nil, UndescribableTypeError{Type: t}
	}

	var reflector jsonschema.Reflector
	jsonSchema, err := reflector.Reflect(
		reflect.Zero(t.key).Interface(),
		jsonschema.InlineRefs,
	)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(jsonSchema)
	if err != nil {
		return nil, err
	}

	var desc map[string]any
	err = json.Unmarshal(b, &desc)
	if err != nil {
		return nil, err
	}
	return desc, nil
}

func describeArray(t Type) (map[string]any, error) {
	desc := map[string]any{"type": "array"}
	if len(t.elems) == 0 {
		return desc, nil
	}
	if len(t.elems) > 1 {
		typedroutes.Logger("schema").Warn(
			"only the first of multiple array element types is described",
			"type", t.String(),
			"elements", len(t.elems),
		)
	}

	items, err := describe(t.elems[0])
	if err != nil {
		return nil, err
	}
	desc["items"] = items
	return desc, nil
}

func describeTuple(t Type) (map[string]any, error) {
	desc := map[string]any{"type": "array"}
	if len(t.elems) == 0 {
		return desc, nil
	}

	prefixItems := make([]any, len(t.elems))
	for i, e := range t.elems {
		item, err := describe(e)
		if err != nil {
			return nil, err
		}
		prefixItems[i] = item
	}
	desc["prefixItems"] = prefixItems
	desc["items"] = false
	desc["minItems"] = len(t.elems)
	return desc, nil
}

func copyDescription(desc map[string]any) map[string]any {
	return copyValue(desc).(map[string]any)
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = copyValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = copyValue(e)
		}
		return s
	default:
		return v
	}
}
