package accrual

import "strings"

// Registry holds named accrual strategies.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy. Panics on duplicate name.
func (r *Registry) Register(s Strategy) {
	key := strings.ToLower(s.Name())
	if _, ok := r.strategies[key]; ok {
		panic("duplicate accrual strategy: " + key)
	}
	r.strategies[key] = s
}

// Get returns the strategy for name, or nil.
func (r *Registry) Get(name string) Strategy {
	return r.strategies[strings.ToLower(name)]
}

// DefaultRegistry returns a registry with all built-in strategies.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MonthlySimple{})
	r.Register(DailyTruncated{})
	return r
}
