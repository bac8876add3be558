// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package encode serializes handler return values into JSON friendly forms.
//
// [encoding/json] already covers structs, maps and primitives but renders
// several common types in unhelpful ways, for example [time.Duration] as a
// bare nanosecond count. [Value] normalizes a value tree so that dates,
// durations, UUIDs, IP addresses and URLs all serialize as the string
// forms their OpenAPI schemas document.
package encode

import (
	"encoding/json"
	"fmt"
	"math"
	"net/netip"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/z5labs/typedroutes"

	"github.com/google/uuid"
)

// NotSerializableError is returned when a value has no JSON representation.
type NotSerializableError struct {
	Type reflect.Type
}

func (e NotSerializableError) Error() string {
	return fmt.Sprintf("encode: %s is not serializable", e.Type)
}

// Value converts v into a value that [json.Marshal] renders the way the
// documented schemas promise. Maps and slices are rewritten recursively,
// structs and [json.Marshaler] implementations are passed through for
// [encoding/json] to handle.
func Value(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case typedroutes.Date:
		return x.String(), nil
	case typedroutes.TimeOfDay:
		return x.String(), nil
	case time.Duration:
		return ISODuration(x), nil
	case uuid.UUID:
		return x.String(), nil
	case typedroutes.IPv4:
		return x.String(), nil
	case typedroutes.IPv6:
		return x.String(), nil
	case netip.Addr:
		return x.String(), nil
	case url.URL:
		return x.String(), nil
	case *url.URL:
		if x == nil {
			return nil, nil
		}
		return x.String(), nil
	case typedroutes.Null:
		return nil, nil
	case []byte:
		return x, nil
	case json.Marshaler:
		return x, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return v, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return Value(rv.Elem().Interface())
	case reflect.Map:
		return mapValue(rv)
	case reflect.Slice, reflect.Array:
		return sliceValue(rv)
	case reflect.Struct:
		return v, nil
	}
	return nil, NotSerializableError{Type: rv.Type()}
}

// Marshal normalizes v with [Value] and renders it as JSON.
func Marshal(v any) ([]byte, error) {
	encoded, err := Value(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encoded)
}

func mapValue(rv reflect.Value) (any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, NotSerializableError{Type: rv.Type()}
	}
	if rv.IsNil() {
		return nil, nil
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		ev, err := Value(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[iter.Key().String()] = ev
	}
	return out, nil
}

func sliceValue(rv reflect.Value) (any, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, nil
	}

	out := make([]any, rv.Len())
	for i := range out {
		ev, err := Value(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

// ISODuration renders d as an ISO 8601 duration. Durations are broken
// down into days, hours, minutes and seconds, where seconds carry at
// most microsecond precision. The zero duration renders as "PT0S".
func ISODuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	units := []struct {
		spec    string
		divisor float64
	}{
		{spec: "S", divisor: 60},
		{spec: "M", divisor: 60},
		{spec: "H", divisor: 24},
	}

	var parts []string
	rem := d.Seconds()
	for _, unit := range units {
		part := math.Mod(rem, unit.divisor)
		rem = math.Floor(rem / unit.divisor)
		if part == 0 {
			continue
		}
		if unit.spec == "S" {
			part = math.Round(part*1e6) / 1e6
			parts = append(parts, strconv.FormatFloat(part, 'f', -1, 64)+unit.spec)
			continue
		}
		parts = append(parts, strconv.FormatInt(int64(part), 10)+unit.spec)
	}
	if len(parts) > 0 {
		parts = append(parts, "T")
	}
	if rem != 0 {
		parts = append(parts, strconv.FormatInt(int64(rem), 10)+"D")
	}
	parts = append(parts, "P")

	slices.Reverse(parts)
	return strings.Join(parts, "")
}
