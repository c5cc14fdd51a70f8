// Package cleaner turns raw CMS markup into clean, Markdown-equivalent text.
//
// Every stage implements Cleaner so stages can be composed with NewChain and a
// different HTML-to-Markdown converter can be swapped in without touching callers.
// Stages never fail on malformed markup: they degrade to returning their input
// unchanged or partially cleaned.
package cleaner

// Cleaner transforms content into a cleaner form.
type Cleaner interface {
	// Clean transforms the input. Implementations in this package only return
	// an error for faults unrelated to the shape of the markup.
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}

// Func adapts a plain string transform into a Cleaner.
type Func struct {
	name string
	fn   func(string) string
}

// NewFunc wraps fn as a named Cleaner.
func NewFunc(name string, fn func(string) string) *Func {
	return &Func{name: name, fn: fn}
}

// Clean applies the wrapped transform.
func (f *Func) Clean(html string) (string, error) {
	return f.fn(html), nil
}

// Name returns the configured name.
func (f *Func) Name() string {
	return f.name
}
