package derive

import (
	"strconv"
	"strings"
)

// TransformKind identifies a post-processing step for a bound parameter.
type TransformKind int

const (
	// TransformUppercase upper-cases the bound value before execution.
	TransformUppercase TransformKind = iota + 1
)

func (k TransformKind) String() string {
	switch k {
	case TransformUppercase:
		return "UPPERCASE"
	default:
		return "TransformKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText renders the kind by name so JSON output stays readable.
func (k TransformKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParameterTransform tells the caller to transform the value bound to
// positional parameter Index (1-based) before executing the query.
type ParameterTransform struct {
	Index int           `json:"index"`
	Kind  TransformKind `json:"kind"`
}

// Context accumulates rendered query text.
//
// A Context is used for exactly one render pass and is not safe for
// concurrent use. Parts only append text and allocate parameter indices.
type Context struct {
	buf        strings.Builder
	param      int
	transforms []ParameterTransform
}

// NewContext returns an empty Context whose first parameter index is 1.
func NewContext() *Context {
	return &Context{}
}

// Append adds text to the output buffer.
func (c *Context) Append(text string) *Context {
	c.buf.WriteString(text)
	return c
}

// NextParameterIndex allocates and returns the next positional parameter index.
func (c *Context) NextParameterIndex() int {
	c.param++
	return c.param
}

// RegisterParameterTransform records a transform for parameter index.
func (c *Context) RegisterParameterTransform(index int, kind TransformKind) {
	c.transforms = append(c.transforms, ParameterTransform{Index: index, Kind: kind})
}

// RenderedText returns the text appended so far.
func (c *Context) RenderedText() string {
	return c.buf.String()
}

// ParameterTransforms returns the transforms registered so far, in
// registration order.
func (c *Context) ParameterTransforms() []ParameterTransform {
	out := make([]ParameterTransform, len(c.transforms))
	copy(out, c.transforms)
	return out
}

// ParameterCount returns the number of parameter indices allocated.
func (c *Context) ParameterCount() int {
	return c.param
}
