package derive

// DefaultPathSeparator marks a nested attribute in a method name:
// "Embedded_street" refers to "embedded.street".
const DefaultPathSeparator = "_"

type options struct {
	splitMode SplitMode
	separator string
}

func defaultOptions() options {
	return options{splitMode: SplitFragment, separator: DefaultPathSeparator}
}

// Option configures Create.
type Option func(*options)

// WithSplitMode selects the keyword boundary rule.
func WithSplitMode(mode SplitMode) Option {
	return func(o *options) {
		o.splitMode = mode
	}
}

// WithPathSeparator sets the nested path separator. An empty separator
// disables nested attribute references.
func WithPathSeparator(separator string) Option {
	return func(o *options) {
		o.separator = separator
	}
}
