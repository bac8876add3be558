// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatePathPattern(t *testing.T) {
	t.Run("will strip anchors and optional slashes", func(t *testing.T) {
		t.Run("if the pattern has no named groups", func(t *testing.T) {
			p := TranslatePathPattern(`/status/?$`)

			assert.Equal(t, "/status", p.Template)
			assert.Empty(t, p.Names)
			assert.Empty(t, p.Patterns)
		})

		t.Run("if the pattern is only an optional slash", func(t *testing.T) {
			p := TranslatePathPattern(`/?$`)

			assert.Equal(t, "/", p.Template)
		})
	})

	t.Run("will replace named groups with placeholders", func(t *testing.T) {
		t.Run("if several groups appear in one pattern", func(t *testing.T) {
			p := TranslatePathPattern(`/projects/(?P<id>[1-9]\d*)/facts/(?P<fact_id>\d+)`)

			assert.Equal(t, "/projects/{id}/facts/{fact_id}", p.Template)
			assert.Equal(t, []string{"id", "fact_id"}, p.Names)
			assert.Equal(t, map[string]string{
				"id":      `[1-9]\d*`,
				"fact_id": `\d+`,
			}, p.Patterns)
		})
	})

	t.Run("will leave a translated template unchanged", func(t *testing.T) {
		t.Run("if it is translated again", func(t *testing.T) {
			p := TranslatePathPattern(`/projects/(?P<id>\d+)/?$`)
			again := TranslatePathPattern(p.Template)

			assert.Equal(t, p.Template, again.Template)
			assert.Empty(t, again.Patterns)
		})
	})

	t.Run("will restore non-capturing groups", func(t *testing.T) {
		t.Run("if one is nested inside a named group", func(t *testing.T) {
			p := TranslatePathPattern(`/codes/(?P<code>(?:ab|cd)+)/?$`)

			assert.Equal(t, "/codes/{code}", p.Template)
			assert.Equal(t, map[string]string{"code": "(ab|cd)+"}, p.Patterns)
		})

		t.Run("if one appears outside any named group", func(t *testing.T) {
			p := TranslatePathPattern(`/api(?:/v1)?/status$`)

			assert.Equal(t, "/api(/v1)?/status", p.Template)
		})
	})

	t.Run("will drop comment groups", func(t *testing.T) {
		p := TranslatePathPattern(`/status(?#health probe)$`)

		assert.Equal(t, "/status", p.Template)
	})

	t.Run("will reuse the placeholder for back-references", func(t *testing.T) {
		t.Run("if a named group is referenced again", func(t *testing.T) {
			p := TranslatePathPattern(`/(?P<word>\w+)/(?P=word)$`)

			assert.Equal(t, "/{word}/{word}", p.Template)
			assert.Equal(t, []string{"word"}, p.Names)
			assert.Equal(t, map[string]string{"word": `\w+`}, p.Patterns)
		})
	})

	t.Run("will keep unsupported constructs verbatim", func(t *testing.T) {
		t.Run("if the pattern contains a lookahead", func(t *testing.T) {
			p := TranslatePathPattern(`/Isaac(?=Asimov)$`)

			assert.Equal(t, "/Isaac(?=Asimov)", p.Template)
			assert.Empty(t, p.Patterns)
		})

		t.Run("if the pattern contains a lookbehind inside a named group", func(t *testing.T) {
			p := TranslatePathPattern(`/books/(?P<title>(?<=/)\w+)$`)

			assert.Equal(t, "/books/{title}", p.Template)
			assert.Equal(t, map[string]string{"title": `(?<=/)\w+`}, p.Patterns)
		})
	})
}
