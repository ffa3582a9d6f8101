package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plan is a tenant's subscription tier. It gates resource quotas.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// ParsePlan validates a raw plan value from storage or input.
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanFree, PlanPro:
		return Plan(s), nil
	}
	return "", fmt.Errorf("unknown plan %q", s)
}

// Tenant represents an isolated organizational boundary. All users and notes
// are partitioned by tenant.
type Tenant struct {
	TenantID  uuid.UUID // UUIDv7
	Name      string
	Slug      string // unique, URL-safe identifier (e.g. "acme")
	Plan      Plan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicTenant is the projection of a tenant returned to clients.
type PublicTenant struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Plan Plan   `json:"plan"`
}

// Public returns the client-facing projection of the tenant.
func (t *Tenant) Public() PublicTenant {
	return PublicTenant{Name: t.Name, Slug: t.Slug, Plan: t.Plan}
}
