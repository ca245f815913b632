package entities

import (
	"time"

	"metacircle/metasync/internal/constants"
)

type User struct {
	ID           int            `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	FirstName    *string        `json:"firstName"`
	LastName     *string        `json:"lastName"`
	Role         constants.Role `json:"role"`
	IsActive     bool           `json:"isActive"`
	CompanyID    *int           `json:"companyId"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
