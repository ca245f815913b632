package entities

import (
	"time"

	"metacircle/metasync/internal/constants"
)

// Company is the tenant boundary for white-label deployments.
type Company struct {
	ID             int                `json:"id"`
	Name           string             `json:"name"`
	Slug           string             `json:"slug"`
	Plan           constants.PlanTier `json:"plan"`
	CustomBranding bool               `json:"customBranding"`
	CustomDomain   *string            `json:"customDomain"`
	MaxSeats       int                `json:"maxSeats"`
	CreatedAt      time.Time          `json:"createdAt"`
}
