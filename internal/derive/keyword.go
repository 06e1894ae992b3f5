package derive

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	keywordOrderBy = "OrderBy"
	keywordOr      = "Or"
	keywordAnd     = "And"
	keywordAsc     = "Asc"
	keywordDesc    = "Desc"
)

// SplitMode selects how keywords are located inside a method name.
type SplitMode int

const (
	// SplitFragment matches a keyword only when the character after it is
	// not a lower-case letter, so "Ordinal" never splits on "Or".
	SplitFragment SplitMode = iota

	// SplitSubstring matches every occurrence of the keyword text.
	SplitSubstring
)

func (m SplitMode) String() string {
	switch m {
	case SplitFragment:
		return "fragment"
	case SplitSubstring:
		return "substring"
	default:
		return fmt.Sprintf("SplitMode(%d)", int(m))
	}
}

// ParseSplitMode parses the textual form produced by SplitMode.String.
func ParseSplitMode(s string) (SplitMode, error) {
	switch s {
	case "fragment", "":
		return SplitFragment, nil
	case "substring":
		return SplitSubstring, nil
	default:
		return 0, fmt.Errorf("unknown split mode %q: must be fragment or substring", s)
	}
}

// splitKeyword splits s around keyword. Leading empty pieces are kept and
// trailing empty pieces are dropped. A string without the keyword comes
// back as a single piece, even when empty.
func splitKeyword(s, keyword string, mode SplitMode) []string {
	var parts []string
	start := 0
	for i := 0; i+len(keyword) <= len(s); {
		if strings.HasPrefix(s[i:], keyword) && keywordAt(s, i, keyword, mode) {
			parts = append(parts, s[start:i])
			i += len(keyword)
			start = i
			continue
		}
		i++
	}
	if parts == nil {
		return []string{s}
	}
	parts = append(parts, s[start:])
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// splitFirst splits s around the first keyword occurrence only.
func splitFirst(s, keyword string, mode SplitMode) (before, after string, found bool) {
	for i := 0; i+len(keyword) <= len(s); i++ {
		if strings.HasPrefix(s[i:], keyword) && keywordAt(s, i, keyword, mode) {
			return s[:i], s[i+len(keyword):], true
		}
	}
	return s, "", false
}

// endsWithKeyword reports whether s ends with keyword at a recognised boundary.
func endsWithKeyword(s, keyword string, mode SplitMode) bool {
	if !strings.HasSuffix(s, keyword) {
		return false
	}
	return keywordAt(s, len(s)-len(keyword), keyword, mode)
}

// keywordAt reports whether the keyword occurrence at index i counts as a keyword.
func keywordAt(s string, i int, keyword string, mode SplitMode) bool {
	if mode == SplitSubstring {
		return true
	}
	end := i + len(keyword)
	if end == len(s) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[end:])
	return !unicode.IsLower(next)
}

// uncapitalize lower-cases the first letter only: "CamelCase" -> "camelCase".
func uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// rewriteSeparator maps the nested path separator onto dot-path syntax.
func rewriteSeparator(s, separator string) string {
	if separator == "" {
		return s
	}
	return strings.ReplaceAll(s, separator, ".")
}
