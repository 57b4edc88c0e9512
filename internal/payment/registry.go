package payment

import (
	"sort"

	"github.com/tilvera/storefront/internal/domain"
)

// Registry maps a payment method to its strategy. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	strategies map[domain.PaymentMethod]Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	m := make(map[domain.PaymentMethod]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Method()] = s
	}
	return &Registry{strategies: m}
}

// Lookup resolves the strategy for a method.
func (r *Registry) Lookup(method domain.PaymentMethod) (Strategy, bool) {
	s, ok := r.strategies[method]
	return s, ok
}

func (r *Registry) IsSupported(method domain.PaymentMethod) bool {
	_, ok := r.strategies[method]
	return ok
}

// Methods lists the enabled methods in stable order.
func (r *Registry) Methods() []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, 0, len(r.strategies))
	for m := range r.strategies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
