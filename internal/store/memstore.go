package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/models/entities"
)

// pointsKey is the composite key of a member-points row.
type pointsKey struct {
	userID      int
	communityID int
}

// MemStore keeps all state in process-memory maps. Restarting the process
// discards everything. Requests run on many goroutines, so the maps are
// guarded by one RWMutex; the id counter is shared across all entity types.
type MemStore struct {
	mu     sync.RWMutex
	nextID int

	pointsPerLevel int

	users       map[int]*entities.User
	companies   map[int]*entities.Company
	communities map[int]*entities.Community
	spaces      map[int]*entities.Space
	posts       map[int]*entities.Post
	events      map[int]*entities.Event
	points      map[pointsKey]*entities.MemberPoints
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty store. pointsPerLevel <= 0 falls back to
// constants.DefaultPointsPerLevel.
func NewMemStore(pointsPerLevel int) *MemStore {
	if pointsPerLevel <= 0 {
		pointsPerLevel = constants.DefaultPointsPerLevel
	}
	return &MemStore{
		nextID:         1,
		pointsPerLevel: pointsPerLevel,
		users:          make(map[int]*entities.User),
		companies:      make(map[int]*entities.Company),
		communities:    make(map[int]*entities.Community),
		spaces:         make(map[int]*entities.Space),
		posts:          make(map[int]*entities.Post),
		events:         make(map[int]*entities.Event),
		points:         make(map[pointsKey]*entities.MemberPoints),
	}
}

// allocID hands out the next id. Callers must hold mu.
func (s *MemStore) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func levelFor(points, perLevel int) int {
	if perLevel <= 0 {
		perLevel = constants.DefaultPointsPerLevel
	}
	return points/perLevel + 1
}

/* ---------- Users ---------- */

func (s *MemStore) GetUser(_ context.Context, id int) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateUser(_ context.Context, ins dtos.InsertUser) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role := constants.Role(ins.Role)
	if !role.Valid() {
		role = constants.RoleMember
	}
	active := true
	if ins.IsActive != nil {
		active = *ins.IsActive
	}

	now := time.Now()
	u := &entities.User{
		ID:           s.allocID(),
		Username:     ins.Username,
		Email:        ins.Email,
		PasswordHash: ins.Password,
		FirstName:    ins.FirstName,
		LastName:     ins.LastName,
		Role:         role,
		IsActive:     active,
		CompanyID:    ins.CompanyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	out := *u
	return &out, nil
}

/* ---------- Companies ---------- */

func (s *MemStore) GetCompany(_ context.Context, id int) (*entities.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *MemStore) GetCompanyBySlug(_ context.Context, slug string) (*entities.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateCompany(_ context.Context, ins dtos.InsertCompany) (*entities.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.companies {
		if c.Slug == ins.Slug {
			return nil, ErrDuplicateSlug
		}
	}

	plan := constants.PlanTier(ins.Plan)
	switch plan {
	case constants.PlanBasic, constants.PlanIntermediate, constants.PlanPremium:
	default:
		plan = constants.PlanBasic
	}
	maxSeats := ins.MaxSeats
	if maxSeats <= 0 {
		maxSeats = 10
	}

	c := &entities.Company{
		ID:             s.allocID(),
		Name:           ins.Name,
		Slug:           ins.Slug,
		Plan:           plan,
		CustomBranding: ins.CustomBranding,
		CustomDomain:   ins.CustomDomain,
		MaxSeats:       maxSeats,
		CreatedAt:      time.Now(),
	}
	s.companies[c.ID] = c
	out := *c
	return &out, nil
}

/* ---------- Communities ---------- */

func (s *MemStore) GetCommunity(_ context.Context, id int) (*entities.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communities[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *MemStore) GetCommunityBySlug(_ context.Context, slug string) (*entities.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.communities {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateCommunity(_ context.Context, ins dtos.InsertCommunity) (*entities.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.communities {
		if c.Slug == ins.Slug {
			return nil, ErrDuplicateSlug
		}
	}

	active := true
	if ins.IsActive != nil {
		active = *ins.IsActive
	}
	theme := ins.Theme
	if len(theme) == 0 {
		theme = []byte(`{}`)
	}

	c := &entities.Community{
		ID:          s.allocID(),
		Name:        ins.Name,
		Slug:        ins.Slug,
		Description: ins.Description,
		OwnerID:     ins.OwnerID,
		Theme:       theme,
		IsActive:    active,
		CreatedAt:   time.Now(),
	}
	s.communities[c.ID] = c
	out := *c
	return &out, nil
}

func (s *MemStore) GetUserCommunities(_ context.Context, ownerID int) ([]entities.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Community
	for _, c := range s.communities {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

/* ---------- Spaces ---------- */

func (s *MemStore) GetSpace(_ context.Context, id int) (*entities.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.spaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *sp
	return &out, nil
}

func (s *MemStore) GetCommunitySpaces(_ context.Context, communityID int) ([]entities.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Space
	for _, sp := range s.spaces {
		if sp.CommunityID == communityID {
			out = append(out, *sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) CreateSpace(_ context.Context, ins dtos.InsertSpace) (*entities.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	public := true
	if ins.IsPublic != nil {
		public = *ins.IsPublic
	}
	sp := &entities.Space{
		ID:          s.allocID(),
		CommunityID: ins.CommunityID,
		Name:        ins.Name,
		Type:        constants.SpaceType(ins.Type),
		IsPublic:    public,
		CreatedAt:   time.Now(),
	}
	s.spaces[sp.ID] = sp
	out := *sp
	return &out, nil
}

/* ---------- Posts ---------- */

func (s *MemStore) GetPost(_ context.Context, id int) (*entities.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *MemStore) GetSpacePosts(_ context.Context, spaceID int) ([]entities.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Post
	for _, p := range s.posts {
		if p.SpaceID == spaceID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerPost(&out[i], &out[j]) })
	return out, nil
}

// newerPost orders posts newest-first, breaking creation-time ties by id so
// results are deterministic even when two posts land in the same tick.
func newerPost(a, b *entities.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (s *MemStore) GetRecentPosts(_ context.Context, communityID, limit int) ([]entities.PostWithAuthor, error) {
	if limit <= 0 {
		limit = constants.DefaultRecentPostsLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	spaceIDs := make(map[int]bool)
	for _, sp := range s.spaces {
		if sp.CommunityID == communityID {
			spaceIDs[sp.ID] = true
		}
	}

	var matched []*entities.Post
	for _, p := range s.posts {
		if spaceIDs[p.SpaceID] {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return newerPost(matched[i], matched[j]) })
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]entities.PostWithAuthor, 0, len(matched))
	for _, p := range matched {
		row := entities.PostWithAuthor{Post: *p}
		if u, ok := s.users[p.AuthorID]; ok {
			author := *u
			row.Author = &author
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *MemStore) CreatePost(_ context.Context, ins dtos.InsertPost) (*entities.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pinned := false
	if ins.IsPinned != nil {
		pinned = *ins.IsPinned
	}
	p := &entities.Post{
		ID:        s.allocID(),
		SpaceID:   ins.SpaceID,
		AuthorID:  ins.AuthorID,
		Title:     ins.Title,
		Content:   ins.Content,
		IsPinned:  pinned,
		CreatedAt: time.Now(),
	}
	s.posts[p.ID] = p
	out := *p
	return &out, nil
}

func (s *MemStore) LikePost(_ context.Context, postID int) (*entities.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	p.LikesCount++
	out := *p
	return &out, nil
}

/* ---------- Events ---------- */

func (s *MemStore) GetEvent(_ context.Context, id int) (*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (s *MemStore) GetUpcomingEvents(_ context.Context, communityID, limit int) ([]entities.Event, error) {
	if limit <= 0 {
		limit = constants.DefaultUpcomingEventsLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	spaceIDs := make(map[int]bool)
	for _, sp := range s.spaces {
		if sp.CommunityID == communityID {
			spaceIDs[sp.ID] = true
		}
	}

	now := time.Now()
	var out []entities.Event
	for _, e := range s.events {
		if spaceIDs[e.SpaceID] && e.StartDate.After(now) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) CreateEvent(_ context.Context, ins dtos.InsertEvent) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var start time.Time
	if ins.StartDate != nil {
		start = *ins.StartDate
	}
	e := &entities.Event{
		ID:           s.allocID(),
		SpaceID:      ins.SpaceID,
		OrganizerID:  ins.OrganizerID,
		Title:        ins.Title,
		Description:  ins.Description,
		StartDate:    start,
		EndDate:      ins.EndDate,
		MaxAttendees: ins.MaxAttendees,
		CreatedAt:    time.Now(),
	}
	s.events[e.ID] = e
	out := *e
	return &out, nil
}

// JoinEvent bumps the attendee count. There is no per-user membership set,
// so repeated joins by the same user keep counting; a known limitation of
// the product, carried forward deliberately.
func (s *MemStore) JoinEvent(_ context.Context, eventID, _ int) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	e.AttendeesCount++
	out := *e
	return &out, nil
}

func (s *MemStore) LeaveEvent(_ context.Context, eventID, _ int) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	if e.AttendeesCount > 0 {
		e.AttendeesCount--
	}
	out := *e
	return &out, nil
}

/* ---------- Member points ---------- */

func (s *MemStore) GetMemberPoints(_ context.Context, userID, communityID int) (*entities.MemberPoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.points[pointsKey{userID, communityID}]
	if !ok {
		return nil, ErrNotFound
	}
	out := *mp
	return &out, nil
}

func (s *MemStore) GetTopMembers(_ context.Context, communityID, limit int) ([]entities.MemberWithUser, error) {
	if limit <= 0 {
		limit = constants.DefaultTopMembersLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []*entities.MemberPoints
	for _, mp := range s.points {
		if mp.CommunityID == communityID {
			rows = append(rows, mp)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserID < rows[j].UserID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]entities.MemberWithUser, 0, len(rows))
	for _, mp := range rows {
		row := entities.MemberWithUser{MemberPoints: *mp}
		if u, ok := s.users[mp.UserID]; ok {
			user := *u
			row.User = &user
		}
		out = append(out, row)
	}
	return out, nil
}

// UpdateMemberPoints has upsert semantics: the row for (userID, communityID)
// is created if absent, and its level is always recomputed from points.
func (s *MemStore) UpdateMemberPoints(_ context.Context, userID, communityID, points int) (*entities.MemberPoints, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pointsKey{userID, communityID}
	mp, ok := s.points[key]
	if !ok {
		mp = &entities.MemberPoints{UserID: userID, CommunityID: communityID}
		s.points[key] = mp
	}
	mp.Points = points
	mp.Level = levelFor(points, s.pointsPerLevel)
	mp.UpdatedAt = time.Now()
	out := *mp
	return &out, nil
}

/* ---------- Aggregates ---------- */

func (s *MemStore) GetCommunityStats(_ context.Context, communityID int) (*entities.CommunityStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spaceIDs := make(map[int]bool)
	courses := 0
	for _, sp := range s.spaces {
		if sp.CommunityID != communityID {
			continue
		}
		spaceIDs[sp.ID] = true
		if sp.Type == constants.SpaceTypeCourse {
			courses++
		}
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	postsToday := 0
	for _, p := range s.posts {
		if spaceIDs[p.SpaceID] && !p.CreatedAt.Before(midnight) {
			postsToday++
		}
	}

	upcoming := 0
	for _, e := range s.events {
		if spaceIDs[e.SpaceID] && e.StartDate.After(now) {
			upcoming++
		}
	}

	active := 0
	for _, mp := range s.points {
		if mp.CommunityID == communityID {
			active++
		}
	}

	return &entities.CommunityStats{
		PostsToday:     postsToday,
		UpcomingEvents: upcoming,
		Courses:        courses,
		ActiveMembers:  active,
	}, nil
}
