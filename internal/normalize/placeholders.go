package normalize

import (
	"regexp"
	"strings"
)

var (
	tokenPattern       = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	placeholderPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)*$`)
	nameSeparators     = regexp.MustCompile(`[^a-z0-9]+`)
	apostrophes        = strings.NewReplacer("'", "", "’", "")
)

// IsPlaceholderName reports whether name is a lower_snake_case identifier.
func IsPlaceholderName(name string) bool {
	return placeholderPattern.MatchString(name)
}

// Placeholders returns the distinct well-formed placeholder names in text,
// in order of first appearance.
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if IsPlaceholderName(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// InvalidPlaceholders returns the {{...}} tokens in text whose content is not
// a lower_snake_case identifier.
func InvalidPlaceholders(text string) []string {
	var invalid []string
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !IsPlaceholderName(m[1]) {
			invalid = append(invalid, m[0])
		}
	}
	return invalid
}

// PlaceholderName converts a label such as "Company Name" or "job-title" to
// lower_snake_case. Apostrophes are dropped, so "Manager's Name" becomes
// managers_name. It returns "" when nothing usable remains.
func PlaceholderName(label string) string {
	name := nameSeparators.ReplaceAllString(apostrophes.Replace(strings.ToLower(label)), "_")
	name = strings.Trim(name, "_")
	if name == "" || !IsPlaceholderName(name) {
		return ""
	}
	return name
}

// CanonicalPlaceholders rewrites tokens like {{ Company Name }} to
// {{company_name}}. Tokens that cannot be converted are left as they are.
func CanonicalPlaceholders(text string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		inner := token[2 : len(token)-2]
		if IsPlaceholderName(inner) {
			return token
		}
		if name := PlaceholderName(inner); name != "" {
			return "{{" + name + "}}"
		}
		return token
	})
}

// FillPlaceholders replaces well-formed tokens with values. Tokens without a
// value are left intact and their names returned as missing.
func FillPlaceholders(text string, values map[string]string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)
	out := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-2]
		if !IsPlaceholderName(name) {
			return token
		}
		if v, ok := values[name]; ok {
			return v
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return token
	})
	return out, missing
}
