package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/models/dtos"
)

// DefaultAdminPassword is the bootstrap credential for fresh installs. It
// is only ever stored hashed.
const DefaultAdminPassword = "metasync123"

func hashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// NewCleanStore returns an empty store holding only the bootstrap admin
// user, for installs that start from nothing.
func NewCleanStore(pointsPerLevel int) (*MemStore, error) {
	s := NewMemStore(pointsPerLevel)
	ctx := context.Background()

	hash, err := hashPassword(DefaultAdminPassword)
	if err != nil {
		return nil, err
	}
	if _, err := s.CreateUser(ctx, dtos.InsertUser{
		Username: "admin",
		Email:    "admin@metacircle.io",
		Password: hash,
		Role:     string(constants.RoleAdmin),
	}); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return s, nil
}

// NewSeededStore returns a store preloaded with the demo dataset: one
// admin, one member, the default company, the "metacircle" community with
// its four spaces, a welcome post, one upcoming event and two member-point
// rows.
func NewSeededStore(pointsPerLevel int) (*MemStore, error) {
	s := NewMemStore(pointsPerLevel)
	ctx := context.Background()

	hash, err := hashPassword(DefaultAdminPassword)
	if err != nil {
		return nil, err
	}

	first, last := "Ana", "Costa"
	admin, err := s.CreateUser(ctx, dtos.InsertUser{
		Username:  "admin",
		Email:     "admin@metacircle.io",
		Password:  hash,
		FirstName: &first,
		LastName:  &last,
		Role:      string(constants.RoleAdmin),
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	mFirst, mLast := "Maria", "Silva"
	member, err := s.CreateUser(ctx, dtos.InsertUser{
		Username:  "mariasilva",
		Email:     "maria@metacircle.io",
		Password:  hash,
		FirstName: &mFirst,
		LastName:  &mLast,
		Role:      string(constants.RoleMember),
	})
	if err != nil {
		return nil, fmt.Errorf("seed member: %w", err)
	}

	if _, err := s.CreateCompany(ctx, dtos.InsertCompany{
		Name:     "MetaCircle",
		Slug:     "metacircle",
		Plan:     string(constants.PlanPremium),
		MaxSeats: 50,
	}); err != nil {
		return nil, fmt.Errorf("seed company: %w", err)
	}

	desc := "The MetaCircle demo community"
	community, err := s.CreateCommunity(ctx, dtos.InsertCommunity{
		Name:        "MetaCircle",
		Slug:        "metacircle",
		Description: &desc,
		OwnerID:     admin.ID,
		Theme:       []byte(`{"primaryColor":"#6366f1","mode":"light"}`),
	})
	if err != nil {
		return nil, fmt.Errorf("seed community: %w", err)
	}

	spaces := []dtos.InsertSpace{
		{CommunityID: community.ID, Name: "General Discussion", Type: string(constants.SpaceTypePost)},
		{CommunityID: community.ID, Name: "Courses", Type: string(constants.SpaceTypeCourse)},
		{CommunityID: community.ID, Name: "Live Events", Type: string(constants.SpaceTypeEvent)},
		{CommunityID: community.ID, Name: "Leaderboard", Type: string(constants.SpaceTypeRanking)},
	}
	var postSpaceID, eventSpaceID int
	for _, ins := range spaces {
		sp, err := s.CreateSpace(ctx, ins)
		if err != nil {
			return nil, fmt.Errorf("seed space %q: %w", ins.Name, err)
		}
		switch sp.Type {
		case constants.SpaceTypePost:
			postSpaceID = sp.ID
		case constants.SpaceTypeEvent:
			eventSpaceID = sp.ID
		}
	}

	if _, err := s.CreatePost(ctx, dtos.InsertPost{
		SpaceID:  postSpaceID,
		AuthorID: admin.ID,
		Title:    "Welcome to MetaCircle",
		Content:  "Introduce yourself and tell us what you want to learn.",
	}); err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}

	start := time.Now().Add(7 * 24 * time.Hour)
	maxAttendees := 100
	if _, err := s.CreateEvent(ctx, dtos.InsertEvent{
		SpaceID:      eventSpaceID,
		OrganizerID:  admin.ID,
		Title:        "Live Q&A with the team",
		StartDate:    &start,
		MaxAttendees: &maxAttendees,
	}); err != nil {
		return nil, fmt.Errorf("seed event: %w", err)
	}

	if _, err := s.UpdateMemberPoints(ctx, admin.ID, community.ID, 250); err != nil {
		return nil, fmt.Errorf("seed points: %w", err)
	}
	if _, err := s.UpdateMemberPoints(ctx, member.ID, community.ID, 120); err != nil {
		return nil, fmt.Errorf("seed points: %w", err)
	}

	return s, nil
}
