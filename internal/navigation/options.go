package navigation

import "net/url"

// NavigateOptions configures a single navigation
type NavigateOptions struct {
	// Replace overwrites the current history entry instead of pushing
	Replace bool

	// Params fill the placeholders of a named route
	Params map[string]string

	// Query is appended to the target path
	Query url.Values
}

// NavigateOption is a functional option for Navigate
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithParams sets the parameters used to build a named route
func WithParams(params map[string]string) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

// WithQuery adds query parameters to the navigation target
func WithQuery(query url.Values) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = query
	}
}
