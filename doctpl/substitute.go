package doctpl

import (
	"regexp"
	"strings"
)

// placeholderRe matches the shortest {{...}} run on a single line.
var placeholderRe = regexp.MustCompile(`\{\{([^\n]*?)\}\}`)

// Substitute replaces every {{name}} placeholder in tpl with vars[name].
// Names are trimmed before lookup; an unbound name yields the empty string.
// Braces that do not form a complete placeholder are left as they are.
//
// Substitute is pure: equal inputs always produce equal results.
func Substitute(tpl string, vars Vars) Result {
	seen := make(map[string]struct{})
	var emphasized []string

	body := placeholderRe.ReplaceAllStringFunc(tpl, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		value := vars[name]
		if strings.TrimSpace(value) != "" {
			if _, ok := seen[value]; !ok {
				seen[value] = struct{}{}
				emphasized = append(emphasized, value)
			}
		}
		return value
	})

	return Result{Body: body, Emphasized: emphasized}
}

// Placeholders lists the distinct trimmed placeholder names used by tpl, in
// order of first appearance.
func Placeholders(tpl string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tpl, -1) {
		name := strings.TrimSpace(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
