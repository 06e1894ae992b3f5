package derive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// QueryKind is the statement shape a method prefix selects.
type QueryKind int

const (
	KindSelect QueryKind = iota
	KindCount
	KindDelete
)

func (k QueryKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindCount:
		return "count"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("QueryKind(%d)", int(k))
	}
}

// MarshalText renders the kind by name.
func (k QueryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SingleResultStyle decides how a single-result call treats zero or
// several matching rows.
type SingleResultStyle int

const (
	// SingleStrict fails on zero rows and on more than one row.
	SingleStrict SingleResultStyle = iota
	// SingleOptional yields nothing on zero rows and fails on more than one.
	SingleOptional
	// SingleAny yields the first row, or nothing on zero rows.
	SingleAny
)

func (s SingleResultStyle) String() string {
	switch s {
	case SingleStrict:
		return "strict"
	case SingleOptional:
		return "optional"
	case SingleAny:
		return "any"
	default:
		return fmt.Sprintf("SingleResultStyle(%d)", int(s))
	}
}

// MarshalText renders the style by name.
func (s SingleResultStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var findFirstPattern = regexp.MustCompile(`^find(First|Top)(\d+)(By)*`)

type knownPrefix struct {
	text    string
	kind    QueryKind
	style   SingleResultStyle
	pattern *regexp.Regexp
}

func (k knownPrefix) matches(method string) bool {
	if k.pattern != nil {
		return k.pattern.MatchString(method)
	}
	return strings.HasPrefix(method, k.text)
}

// knownPrefixes is matched in order; the first match wins.
var knownPrefixes = []knownPrefix{
	{text: "findBy", kind: KindSelect, style: SingleStrict},
	{text: "findAll", kind: KindSelect, style: SingleStrict},
	{text: "findFirst", kind: KindSelect, style: SingleStrict, pattern: findFirstPattern},
	{text: "findOptionalBy", kind: KindSelect, style: SingleOptional},
	{text: "findAnyBy", kind: KindSelect, style: SingleAny},
	{text: "deleteBy", kind: KindDelete, style: SingleAny},
	{text: "removeBy", kind: KindDelete, style: SingleAny},
	{text: "countBy", kind: KindCount, style: SingleAny},
}

// Prefix is the recognised leading part of a method name.
type Prefix struct {
	text       string
	custom     bool
	kind       QueryKind
	style      SingleResultStyle
	maxResults int
	pattern    *regexp.Regexp
}

// ParsePrefix recognises the prefix of method. A non-empty custom prefix
// takes precedence when method starts with it; otherwise the known
// prefixes are tried in order. An unrecognised method yields an empty
// Prefix that strips nothing.
func ParsePrefix(custom, method string) Prefix {
	var known *knownPrefix
	for i := range knownPrefixes {
		if knownPrefixes[i].matches(method) {
			known = &knownPrefixes[i]
			break
		}
	}

	if custom != "" && strings.HasPrefix(method, custom) {
		p := Prefix{text: custom, custom: true, kind: customKind(custom)}
		if known != nil {
			p.style = known.style
		}
		return p
	}
	if known == nil {
		return Prefix{}
	}

	p := Prefix{text: known.text, kind: known.kind, style: known.style, pattern: known.pattern}
	if known.pattern != nil {
		m := known.pattern.FindStringSubmatch(method)
		p.text = m[0]
		if n, err := strconv.Atoi(m[2]); err == nil {
			p.maxResults = n
		}
	}
	return p
}

// customKind keeps delete and count semantics for custom prefixes that
// spell the default ones in a different case.
func customKind(custom string) QueryKind {
	switch {
	case strings.EqualFold(custom, "deleteBy"), strings.EqualFold(custom, "removeBy"):
		return KindDelete
	case strings.EqualFold(custom, "countBy"):
		return KindCount
	default:
		return KindSelect
	}
}

// Text returns the matched prefix text, e.g. "findBy" or "findFirst10By".
func (p Prefix) Text() string { return p.text }

// Custom reports whether the repository's custom prefix matched.
func (p Prefix) Custom() bool { return p.custom }

// Kind returns the statement shape.
func (p Prefix) Kind() QueryKind { return p.kind }

// SingleResult returns the single-result style.
func (p Prefix) SingleResult() SingleResultStyle { return p.style }

// MaxResults returns N for findFirstN/findTopN prefixes, else 0.
func (p Prefix) MaxResults() int { return p.maxResults }

// Strip removes the prefix from name.
func (p Prefix) Strip(name string) string {
	if p.pattern != nil {
		if loc := p.pattern.FindStringIndex(name); loc != nil {
			return name[loc[1]:]
		}
		return name
	}
	return strings.TrimPrefix(name, p.text)
}
