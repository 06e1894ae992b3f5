// Package params binds call arguments to the positional parameters of a
// derived query.
//
// Arguments bind in order: argument i becomes parameter ?i. MaxResults and
// FirstResult arguments restrict the size of the result and may appear
// anywhere in the argument list; they never occupy a positional slot.
//
//	p, err := params.Bind(root.ParameterCount(), []any{"ACME", params.MaxResults(10)}, 0)
//	p.Apply(root.ParameterTransforms())
package params
