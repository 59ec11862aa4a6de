// Package query implements Julie's navigation and search layer (C9):
// fast_search, fast_goto, fast_refs, trace_call_path, get_symbols,
// deep_dive, and find_logic, all operating against one workspace's
// already-open Store/Index/Vectors handles.
package query

import (
	"strings"
	"unicode"
)

// splitWords breaks an identifier into lowercase constituent words,
// detecting snake_case/kebab-case/camelCase/PascalCase/SCREAMING_SNAKE
// and letter-digit transitions. Grounded on the teacher's
// internal/semantic.NameSplitter.Split two-pass algorithm (already
// adapted once for Bleve tokenization in internal/searchindex/analyzer.go);
// reimplemented here as a standalone pure function since naming-variant
// generation needs the split words themselves, not a token stream.
func splitWords(name string) []string {
	if name == "" {
		return nil
	}
	runes := []rune(name)

	var words []string
	var buf []rune
	flush := func() {
		if len(buf) > 0 {
			words = append(words, strings.ToLower(string(buf)))
			buf = buf[:0]
		}
	}

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '_' || ch == '-' || ch == '.' || ch == '/' {
			flush()
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) && unicode.IsUpper(ch) {
				flush()
			} else if i > 1 && unicode.IsUpper(prev) && unicode.IsLower(ch) && unicode.IsUpper(runes[i-2]) {
				// HTTPServer -> HTTP | Server: the last uppercase letter
				// before a lowercase run starts the new word.
				if len(buf) > 0 {
					last := buf[len(buf)-1]
					buf = buf[:len(buf)-1]
					flush()
					buf = append(buf, last)
				}
			} else if (unicode.IsLetter(prev) && unicode.IsDigit(ch)) || (unicode.IsDigit(prev) && unicode.IsLetter(ch)) {
				flush()
			}
		}
		buf = append(buf, ch)
	}
	flush()
	return words
}

// ToSnakeCase joins words with underscores: fooBar -> foo_bar.
func ToSnakeCase(name string) string {
	return strings.Join(splitWords(name), "_")
}

// ToKebabCase joins words with hyphens: foo_bar -> foo-bar.
func ToKebabCase(name string) string {
	return strings.Join(splitWords(name), "-")
}

// ToScreamingSnakeCase joins words with underscores, upper-cased:
// fooBar -> FOO_BAR.
func ToScreamingSnakeCase(name string) string {
	return strings.ToUpper(ToSnakeCase(name))
}

// ToCamelCase lower-cases the first word and title-cases the rest:
// foo_bar -> fooBar.
func ToCamelCase(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(titleCase(w))
	}
	return b.String()
}

// ToPascalCase title-cases every word: foo_bar -> FooBar.
func ToPascalCase(name string) string {
	words := splitWords(name)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCase(w))
	}
	return b.String()
}

func titleCase(w string) string {
	if w == "" {
		return ""
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Variants returns every naming-convention rendering of name distinct
// from name itself, used by fast_goto Strategy 2, fast_refs, and
// trace_call_path's naming-variant bridge to probe the store for the
// same logical symbol spelled the way a different language would spell
// it (e.g. get_user_name in Python vs getUserName in JavaScript).
func Variants(name string) []string {
	candidates := []string{
		ToSnakeCase(name),
		ToCamelCase(name),
		ToPascalCase(name),
		ToKebabCase(name),
		ToScreamingSnakeCase(name),
	}
	seen := map[string]bool{name: true}
	var out []string
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
