package entities

import "time"

type Event struct {
	ID             int        `json:"id"`
	SpaceID        int        `json:"spaceId"`
	OrganizerID    int        `json:"organizerId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	AttendeesCount int        `json:"attendeesCount"`
	MaxAttendees   *int       `json:"maxAttendees"`
	CreatedAt      time.Time  `json:"createdAt"`
}
