// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"reflect"
	"strings"
	"testing"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/openapi"
	"github.com/z5labs/typedroutes/schema"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSet_Resolve(t *testing.T) {
	t.Run("will parse booleans from integers", func(t *testing.T) {
		t.Run("if no boolean strings are configured", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.Bool())
			if !assert.Nil(t, err) {
				return
			}

			cases := map[string]bool{
				"1": true,
				"0": false,
				"2": true,
			}
			for value, expected := range cases {
				got, err := c.Parse(value)
				if !assert.Nil(t, err, value) {
					return
				}
				assert.Equal(t, expected, got, value)
			}

			for _, value := range []string{"", "true", "yes", "false", "no"} {
				_, err := c.Parse(value)

				var perr ParseError
				assert.ErrorAs(t, err, &perr, value)
			}
		})
	})

	t.Run("will parse configured boolean strings", func(t *testing.T) {
		t.Run("if string sets were given to NewSet", func(t *testing.T) {
			s := NewSet(WithBoolStrings(
				[]string{"yes", "true"},
				[]string{"no", "false"},
			))

			c, err := s.Resolve(schema.Bool())
			if !assert.Nil(t, err) {
				return
			}

			for _, value := range []string{"yes", "true"} {
				got, err := c.Parse(value)
				if !assert.Nil(t, err, value) {
					return
				}
				assert.Equal(t, true, got, value)
			}
			for _, value := range []string{"no", "false"} {
				got, err := c.Parse(value)
				if !assert.Nil(t, err, value) {
					return
				}
				assert.Equal(t, false, got, value)
			}

			got, err := c.Parse("1")
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, true, got)
		})
	})

	t.Run("will try union members in order", func(t *testing.T) {
		t.Run("if the declared type is a union of int and UUID", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.Union(schema.Int(), schema.UUID()))
			if !assert.Nil(t, err) {
				return
			}

			got, err := c.Parse("12345")
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, int64(12345), got)

			id := uuid.New()
			got, err = c.Parse(id.String())
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, id, got)

			_, err = c.Parse("1.23")
			var perr ParseError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			assert.Equal(t, "1.23", perr.Value)
			assert.True(t, strings.HasPrefix(perr.Target, "union["), perr.Target)
		})
	})

	t.Run("will carry the member schemas in metadata", func(t *testing.T) {
		t.Run("if the declared type is a union", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.Union(schema.Int(), schema.UUID()))
			if !assert.Nil(t, err) {
				return
			}

			md := c.Metadata()
			if !assert.Len(t, md, 2) {
				return
			}
			assert.Equal(t, openapi.ParameterInfo{
				Schema: map[string]any{"type": "integer"},
			}, md[0])
			assert.Equal(t, openapi.ParameterInfo{
				Schema: map[string]any{"type": "string", "format": "uuid"},
			}, md[1])
		})
	})

	t.Run("will append annotation extras to metadata", func(t *testing.T) {
		t.Run("if the declared type is annotated", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.Annotate(schema.Int(), schema.Extra{"title": "identifier"}))
			if !assert.Nil(t, err) {
				return
			}

			md := c.Metadata()
			if !assert.Len(t, md, 2) {
				return
			}
			assert.Equal(t, schema.Extra{"title": "identifier"}, md[1])
		})
	})

	t.Run("will parse null parameters", func(t *testing.T) {
		t.Run("if the declared type is the null type", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.Null())
			if !assert.Nil(t, err) {
				return
			}

			got, err := c.Parse("whatever")
			if !assert.Nil(t, err) {
				return
			}
			assert.Nil(t, got)
		})
	})

	t.Run("will parse addresses by family", func(t *testing.T) {
		t.Run("if the declared type is IPv4", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.IPv4())
			if !assert.Nil(t, err) {
				return
			}

			got, err := c.Parse("127.0.0.1")
			if !assert.Nil(t, err) {
				return
			}
			addr, ok := got.(typedroutes.IPv4)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, "127.0.0.1", addr.String())
		})

		t.Run("if an IPv4 value is given for an IPv6 parameter", func(t *testing.T) {
			s := NewSet()

			c, err := s.Resolve(schema.IPv6())
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Parse("127.0.0.1")

			var perr ParseError
			assert.ErrorAs(t, err, &perr)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the declared type is the zero value", func(t *testing.T) {
			s := NewSet()

			_, err := s.Resolve(schema.Type{})

			var terr schema.TypeRequiredError
			assert.ErrorAs(t, err, &terr)
		})

		t.Run("if the declared type is a container", func(t *testing.T) {
			s := NewSet()

			_, err := s.Resolve(schema.ArrayOf(schema.Int()))

			var uerr UnroutableTypeError
			assert.ErrorAs(t, err, &uerr)
		})

		t.Run("if the declared type has no registered converter", func(t *testing.T) {
			type opaque struct{ id int }
			s := NewSet()

			_, err := s.Resolve(schema.Of[opaque]())

			var uerr UnroutableTypeError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
			assert.True(t, uerr.Type.Equal(schema.Of[opaque]()))
		})

		t.Run("if a union member is not routable", func(t *testing.T) {
			s := NewSet()

			_, err := s.Resolve(schema.Union(schema.Int(), schema.Map()))

			var uerr UnroutableTypeError
			assert.ErrorAs(t, err, &uerr)
		})
	})
}

func TestSet_Register(t *testing.T) {
	type sku struct {
		code string
	}

	t.Run("will resolve a custom converter", func(t *testing.T) {
		t.Run("if one was registered for the type", func(t *testing.T) {
			s := NewSet()

			err := s.Register(reflect.TypeFor[sku](), NewConverter(
				func(value string) (any, error) {
					return sku{code: strings.ToUpper(value)}, nil
				},
				reflect.TypeFor[sku](),
				openapi.ParameterInfo{Schema: map[string]any{"type": "string", "format": "sku"}},
			))
			if !assert.Nil(t, err) {
				return
			}

			c, err := s.Resolve(schema.Of[sku]())
			if !assert.Nil(t, err) {
				return
			}

			got, err := c.Parse("ab-123")
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, sku{code: "AB-123"}, got)
		})
	})

	t.Run("will restore defaults", func(t *testing.T) {
		t.Run("if the set is rebuilt", func(t *testing.T) {
			s := NewSet()

			err := s.Register(reflect.TypeFor[sku](), NewConverter(
				func(value string) (any, error) { return sku{code: value}, nil },
				reflect.TypeFor[sku](),
			))
			if !assert.Nil(t, err) {
				return
			}

			s.Rebuild()

			_, err = s.Resolve(schema.Of[sku]())
			var uerr UnroutableTypeError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}

			_, err = s.Resolve(schema.Int())
			assert.Nil(t, err)
		})
	})
}

func TestConverter_Equal(t *testing.T) {
	t.Run("will report converters equal", func(t *testing.T) {
		t.Run("if the same type is resolved twice", func(t *testing.T) {
			s := NewSet()

			a, err := s.Resolve(schema.Int())
			if !assert.Nil(t, err) {
				return
			}
			b, err := s.Resolve(schema.Int())
			if !assert.Nil(t, err) {
				return
			}

			assert.True(t, a.Equal(b))
		})

		t.Run("if the same union is resolved twice", func(t *testing.T) {
			s := NewSet()

			a, err := s.Resolve(schema.Union(schema.Int(), schema.UUID()))
			if !assert.Nil(t, err) {
				return
			}
			b, err := s.Resolve(schema.Union(schema.Int(), schema.UUID()))
			if !assert.Nil(t, err) {
				return
			}

			assert.True(t, a.Equal(b))
		})
	})

	t.Run("will report converters distinct", func(t *testing.T) {
		t.Run("if the underlying types differ", func(t *testing.T) {
			s := NewSet()

			a, err := s.Resolve(schema.Int())
			if !assert.Nil(t, err) {
				return
			}
			b, err := s.Resolve(schema.String())
			if !assert.Nil(t, err) {
				return
			}

			assert.False(t, a.Equal(b))
		})

		t.Run("if one is a union and the other is not", func(t *testing.T) {
			s := NewSet()

			a, err := s.Resolve(schema.Union(schema.Int(), schema.UUID()))
			if !assert.Nil(t, err) {
				return
			}
			b, err := s.Resolve(schema.Int())
			if !assert.Nil(t, err) {
				return
			}

			assert.False(t, a.Equal(b))
		})

		t.Run("if only the attached metadata differs", func(t *testing.T) {
			s := NewSet()

			a, err := s.Resolve(schema.Annotate(schema.Int(), schema.Extra{"title": "a"}))
			if !assert.Nil(t, err) {
				return
			}
			b, err := s.Resolve(schema.Int())
			if !assert.Nil(t, err) {
				return
			}

			assert.False(t, a.Equal(b))
		})
	})
}
