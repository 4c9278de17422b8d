// Package bank holds the read-only question blueprint store: one common pool
// plus one pool per role, loaded once at startup.
package bank

import (
	"fmt"

	"github.com/abhisek/attestiz/internal/quiz"
)

// RoleSet is the blueprint pool of one role together with its settings.
type RoleSet struct {
	Slug          string
	Title         string
	BlockTwoCount int
	Questions     []quiz.Blueprint
}

// Bank is the loaded blueprint store. It is immutable after construction and
// safe for concurrent use.
type Bank struct {
	common []quiz.Blueprint
	roles  map[string]*RoleSet
	order  []string
}

// New assembles a Bank from an already-parsed common pool and role pools.
// Role order is preserved for display.
func New(common []quiz.Blueprint, roles ...RoleSet) *Bank {
	b := &Bank{
		common: common,
		roles:  make(map[string]*RoleSet, len(roles)),
	}
	for i := range roles {
		r := roles[i]
		if _, dup := b.roles[r.Slug]; !dup {
			b.order = append(b.order, r.Slug)
		}
		b.roles[r.Slug] = &r
	}
	return b
}

// Common returns the common blueprint pool.
func (b *Bank) Common() []quiz.Blueprint {
	return b.common
}

// Role returns the pool registered for slug, or an error wrapping
// quiz.ErrUnknownRole.
func (b *Bank) Role(slug string) (*RoleSet, error) {
	r, ok := b.roles[slug]
	if !ok {
		return nil, fmt.Errorf("role %q: %w", slug, quiz.ErrUnknownRole)
	}
	return r, nil
}

// Roles returns every registered role in configuration order.
func (b *Bank) Roles() []RoleSet {
	out := make([]RoleSet, 0, len(b.order))
	for _, slug := range b.order {
		out = append(out, *b.roles[slug])
	}
	return out
}

// Stats summarizes pool sizes for logging and the admin API.
type Stats struct {
	Common int            `json:"common"`
	Roles  map[string]int `json:"roles"`
}

// Stats returns the number of blueprints per pool.
func (b *Bank) Stats() Stats {
	s := Stats{Common: len(b.common), Roles: make(map[string]int, len(b.roles))}
	for slug, r := range b.roles {
		s.Roles[slug] = len(r.Questions)
	}
	return s
}
