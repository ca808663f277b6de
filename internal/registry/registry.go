// Package registry holds the customer collection as an immutable value.
// Every mutating operation returns a new Registry and leaves the receiver
// untouched, so a caller can swap the whole value in one step.
package registry

import (
	"fmt"
	"strings"

	"fleetdesk-backend/internal/domain"
)

// Registry is an ordered, loginId-keyed set of customers.
type Registry struct {
	customers []domain.Customer
	index     map[string]int
}

// New builds a registry from persisted records. Duplicate keys collapse
// into the first position with the last value. Records are not validated
// here so that a legacy snapshot still loads.
func New(customers []domain.Customer) Registry {
	r := Registry{
		customers: make([]domain.Customer, 0, len(customers)),
		index:     make(map[string]int, len(customers)),
	}
	for _, c := range customers {
		if strings.TrimSpace(c.LoginID) == "" {
			continue
		}
		if i, ok := r.index[c.LoginID]; ok {
			r.customers[i] = c.Clone()
			continue
		}
		r.index[c.LoginID] = len(r.customers)
		r.customers = append(r.customers, c.Clone())
	}
	return r
}

// Upsert validates c and replaces the record with the same loginId in place,
// or appends it.
func (r Registry) Upsert(c domain.Customer) (Registry, error) {
	if err := c.Validate(); err != nil {
		return r, err
	}
	return r.put(c), nil
}

// UpsertAll applies Upsert to every record and fails on the first invalid one
// without changing r.
func (r Registry) UpsertAll(customers []domain.Customer) (Registry, error) {
	next := r
	for _, c := range customers {
		var err error
		if next, err = next.Upsert(c); err != nil {
			return r, fmt.Errorf("customer %q: %w", c.LoginID, err)
		}
	}
	return next, nil
}

// Remove drops loginID. Other records that reference it are left as they are.
func (r Registry) Remove(loginID string) Registry {
	i, ok := r.index[loginID]
	if !ok {
		return r
	}
	out := make([]domain.Customer, 0, len(r.customers)-1)
	out = append(out, r.customers[:i]...)
	out = append(out, r.customers[i+1:]...)
	return Registry{customers: out, index: buildIndex(out)}
}

// Find returns a copy of the record keyed by loginID.
func (r Registry) Find(loginID string) (domain.Customer, bool) {
	i, ok := r.index[loginID]
	if !ok {
		return domain.Customer{}, false
	}
	return r.customers[i].Clone(), true
}

// All returns copies of every record in insertion order.
func (r Registry) All() []domain.Customer {
	out := make([]domain.Customer, len(r.customers))
	for i, c := range r.customers {
		out[i] = c.Clone()
	}
	return out
}

func (r Registry) Len() int {
	return len(r.customers)
}

// ResolveReferrerName returns the name of c's referrer, or "" when c has no
// referrer or the link dangles.
func (r Registry) ResolveReferrerName(c domain.Customer) string {
	if c.ReferredBy == "" {
		return ""
	}
	ref, ok := r.Find(c.ReferredBy)
	if !ok {
		return ""
	}
	return ref.Name
}

// SetStatus flips the lifecycle flag of loginID. Deactivation needs a reason.
func (r Registry) SetStatus(loginID string, active bool, reason string) (Registry, error) {
	c, ok := r.Find(loginID)
	if !ok {
		return r, fmt.Errorf("customer %q: %w", loginID, domain.ErrNotFound)
	}
	c.Active = domain.BoolPtr(active)
	if active {
		c.InactiveReason = ""
	} else {
		c.InactiveReason = strings.TrimSpace(reason)
	}
	return r.Upsert(c)
}

func (r Registry) put(c domain.Customer) Registry {
	out := make([]domain.Customer, len(r.customers), len(r.customers)+1)
	copy(out, r.customers)
	if i, ok := r.index[c.LoginID]; ok {
		out[i] = c.Clone()
		return Registry{customers: out, index: r.index}
	}
	index := make(map[string]int, len(r.index)+1)
	for k, v := range r.index {
		index[k] = v
	}
	index[c.LoginID] = len(out)
	out = append(out, c.Clone())
	return Registry{customers: out, index: index}
}

func buildIndex(customers []domain.Customer) map[string]int {
	index := make(map[string]int, len(customers))
	for i, c := range customers {
		index[c.LoginID] = i
	}
	return index
}
