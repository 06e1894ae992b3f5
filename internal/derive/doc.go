// Package derive compiles repository method names into entity queries.
//
// A derivable method name encodes its query through naming conventions:
//
//	findByNameAndEnabledOrderByCounterDescIdAsc
//	└─┬──┘└──────────┬────────┘└─────────┬────────┘
//	prefix      predicates           ordering
//
// Compilation runs in two strictly sequential passes:
//
//	build       method name -> validated part tree (top-down, left-to-right)
//	buildQuery  part tree   -> query text + parameter transforms
//
// PART TREE:
//
// The tree is rooted at a Root. Its children are one OrPart per
// Or-delimited predicate segment followed by at most one OrderByPart.
// Each OrPart holds one AndPart per And-delimited sub-segment, and each
// AndPart holds exactly one PropertyPart (attribute + comparator).
//
//	Root
//	├── OrPart (first)
//	│   ├── AndPart (first) ── PropertyPart name Equal
//	│   └── AndPart         ── PropertyPart enabled Equal
//	└── OrderByPart counter desc, id asc
//
// Part is a sealed interface. Only types in this package implement it, so
// backends such as querysql can switch exhaustively over the node types.
//
// RENDERING:
//
// Rendering writes into a fresh Context, an accumulator holding the text
// buffer, the positional parameter counter and the list of parameter
// transforms. Positional parameters are numbered ?1..?N in the order the
// predicates appear in the method name. A tree never changes after Create
// returns, so it may be rendered any number of times from any goroutine.
//
// KEYWORD BOUNDARIES:
//
// SplitFragment (the default) only recognises the keywords And, Or,
// OrderBy, Asc and Desc when they are not followed by a lower-case letter,
// so attributes such as "ordinal" or "android" survive intact.
// SplitSubstring reproduces plain substring splitting for compatibility
// with queries derived by older tooling.
//
// ERRORS:
//
// Every failure is a *MethodExpressionError raised during Create. Rendering
// an already built tree cannot fail.
package derive
