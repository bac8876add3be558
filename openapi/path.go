// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapi

import (
	"regexp"
	"strings"

	"github.com/z5labs/typedroutes"
)

// Path is a translated path pattern. Template uses OpenAPI {name}
// placeholders, Names lists the named groups in the order they were
// discovered, and Patterns maps each name to its sub-pattern.
type Path struct {
	Template string
	Names    []string
	Patterns map[string]string
}

// specialGroup matches the first innermost regex group of the (?...)
// family, i.e. one containing no parentheses of its own.
var specialGroup = regexp.MustCompile(`\((\?[^()]*)\)`)

var groupName = regexp.MustCompile(`^<([^>]+)>`)

// Parentheses kept in the output, e.g. those of non-capturing groups,
// are escaped to these placeholders so the group search does not match
// them again and are restored once translation is done.
const (
	openPlaceholder  = "\x01"
	closePlaceholder = "\x02"
)

// TranslatePathPattern translates a regex path pattern into an OpenAPI
// path template.
//
// Named groups become {name} placeholders with their sub-pattern
// recorded, back-references reuse the placeholder of the group they
// refer to, comment groups are dropped and non-capturing groups are
// replaced with their content. Any other (?...) construct has no
// OpenAPI representation; it is kept as-is, leaving an invalid
// template, and a warning is logged. A trailing "$" and a trailing
// optional slash are removed from the template.
func TranslatePathPattern(pattern string) Path {
	working := strings.TrimSuffix(pattern, "$")
	patterns := make(map[string]string)
	var names []string

	for {
		m := specialGroup.FindStringSubmatchIndex(working)
		if m == nil {
			break
		}

		part := working[m[2]:m[3]]
		quantifier, value := part[:2], part[2:]
		switch quantifier {
		case "?P":
			if nm := groupName.FindStringSubmatch(value); nm != nil {
				name := nm[1]
				if _, exists := patterns[name]; !exists {
					names = append(names, name)
				}
				patterns[name] = value[len(nm[0]):]
				value = "{" + name + "}"
			} else if rest, ok := strings.CutPrefix(value, "="); ok {
				value = "{" + rest + "}"
			} else {
				value = keepUnsupported(pattern, part)
			}
		case "?#":
			value = ""
		case "?:":
			value = openPlaceholder + value + closePlaceholder
		default:
			value = keepUnsupported(pattern, part)
		}
		working = working[:m[0]] + value + working[m[1]:]
	}

	restore := strings.NewReplacer(
		openPlaceholder, "(",
		closePlaceholder, ")",
	)
	working = restore.Replace(working)
	for name, sub := range patterns {
		patterns[name] = restore.Replace(sub)
	}

	if working == "/?" {
		working = "/"
	} else {
		working = strings.TrimSuffix(working, "/?")
	}

	return Path{
		Template: working,
		Names:    names,
		Patterns: patterns,
	}
}

func keepUnsupported(pattern, part string) string {
	typedroutes.Logger("openapi").Warn(
		"regex construct has no OpenAPI path equivalent",
		"pattern", pattern,
		"construct", "("+part+")",
	)
	return openPlaceholder + part + closePlaceholder
}
