package axis

import (
	"fmt"
	"strings"
)

// Registry holds axis options in catalog order. Order is significant: hosts
// present the catalog as-is, so the registry never sorts.
type Registry struct {
	options []Option
	byLabel map[string]int
}

// NewRegistry constructs a registry from the given options, preserving order.
// Duplicate labels return an error.
func NewRegistry(options ...Option) (*Registry, error) {
	r := &Registry{byLabel: make(map[string]int, len(options))}
	for _, opt := range options {
		if err := r.Register(opt); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry panics on registration failure. Useful for init-time wiring.
func MustNewRegistry(options ...Option) *Registry {
	r, err := NewRegistry(options...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register appends an option to the catalog.
func (r *Registry) Register(opt Option) error {
	label := strings.TrimSpace(opt.Label)
	if label == "" {
		return fmt.Errorf("axis: option label is required")
	}
	if opt.Apply == nil || opt.Format == nil {
		return fmt.Errorf("axis: option %q needs apply and format behaviors", label)
	}
	key := strings.ToLower(label)
	if _, exists := r.byLabel[key]; exists {
		return fmt.Errorf("axis: option %q already registered", label)
	}
	r.byLabel[key] = len(r.options)
	r.options = append(r.options, opt)
	return nil
}

// Lookup finds an option by label, case-insensitively.
func (r *Registry) Lookup(label string) (Option, bool) {
	if r == nil {
		return Option{}, false
	}
	idx, ok := r.byLabel[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return Option{}, false
	}
	return r.options[idx], true
}

// Options returns the catalog in registration order.
func (r *Registry) Options() []Option {
	if r == nil {
		return nil
	}
	return append([]Option(nil), r.options...)
}

// Labels returns the option labels in registration order.
func (r *Registry) Labels() []string {
	if r == nil {
		return nil
	}
	labels := make([]string, 0, len(r.options))
	for _, opt := range r.options {
		labels = append(labels, opt.Label)
	}
	return labels
}
