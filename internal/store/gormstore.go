package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/models/entities"
	gormModels "metacircle/metasync/internal/models/gorm"
)

// GormStore is the optional SQLite-backed implementation for demos that
// want state to survive a restart. Semantics match MemStore exactly,
// including the single id sequence shared across all tables.
type GormStore struct {
	db             *gorm.DB
	pointsPerLevel int
}

var _ Store = (*GormStore)(nil)

// OpenArchiveStore opens (creating if needed) the SQLite file at path and
// migrates the schema.
func OpenArchiveStore(path string, pointsPerLevel int) (*GormStore, error) {
	if pointsPerLevel <= 0 {
		pointsPerLevel = constants.DefaultPointsPerLevel
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	if err := db.AutoMigrate(
		&gormModels.IDCounter{},
		&gormModels.User{},
		&gormModels.Company{},
		&gormModels.Community{},
		&gormModels.Space{},
		&gormModels.Post{},
		&gormModels.Event{},
		&gormModels.MemberPoints{},
	); err != nil {
		return nil, fmt.Errorf("migrate archive db: %w", err)
	}

	counter := gormModels.IDCounter{ID: 1, Next: 1}
	if err := db.FirstOrCreate(&counter, gormModels.IDCounter{ID: 1}).Error; err != nil {
		return nil, fmt.Errorf("init id counter: %w", err)
	}

	return &GormStore{db: db, pointsPerLevel: pointsPerLevel}, nil
}

// allocID advances the shared sequence inside tx.
func allocID(tx *gorm.DB) (int, error) {
	var c gormModels.IDCounter
	if err := tx.First(&c, 1).Error; err != nil {
		return 0, fmt.Errorf("read id counter: %w", err)
	}
	id := c.Next
	c.Next++
	if err := tx.Save(&c).Error; err != nil {
		return 0, fmt.Errorf("advance id counter: %w", err)
	}
	return id, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------- conversions ---------- */

func userFromRow(r *gormModels.User) *entities.User {
	return &entities.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         constants.Role(r.Role),
		IsActive:     r.IsActive,
		CompanyID:    r.CompanyID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func companyFromRow(r *gormModels.Company) *entities.Company {
	return &entities.Company{
		ID:             r.ID,
		Name:           r.Name,
		Slug:           r.Slug,
		Plan:           constants.PlanTier(r.Plan),
		CustomBranding: r.CustomBranding,
		CustomDomain:   r.CustomDomain,
		MaxSeats:       r.MaxSeats,
		CreatedAt:      r.CreatedAt,
	}
}

func communityFromRow(r *gormModels.Community) *entities.Community {
	return &entities.Community{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Theme:       json.RawMessage(r.Theme),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

func spaceFromRow(r *gormModels.Space) entities.Space {
	return entities.Space{
		ID:          r.ID,
		CommunityID: r.CommunityID,
		Name:        r.Name,
		Type:        constants.SpaceType(r.Type),
		IsPublic:    r.IsPublic,
		CreatedAt:   r.CreatedAt,
	}
}

func postFromRow(r *gormModels.Post) entities.Post {
	return entities.Post{
		ID:            r.ID,
		SpaceID:       r.SpaceID,
		AuthorID:      r.AuthorID,
		Title:         r.Title,
		Content:       r.Content,
		LikesCount:    r.LikesCount,
		CommentsCount: r.CommentsCount,
		IsPinned:      r.IsPinned,
		CreatedAt:     r.CreatedAt,
	}
}

func eventFromRow(r *gormModels.Event) entities.Event {
	return entities.Event{
		ID:             r.ID,
		SpaceID:        r.SpaceID,
		OrganizerID:    r.OrganizerID,
		Title:          r.Title,
		Description:    r.Description,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AttendeesCount: r.AttendeesCount,
		MaxAttendees:   r.MaxAttendees,
		CreatedAt:      r.CreatedAt,
	}
}

func pointsFromRow(r *gormModels.MemberPoints) *entities.MemberPoints {
	return &entities.MemberPoints{
		UserID:      r.UserID,
		CommunityID: r.CommunityID,
		Points:      r.Points,
		Level:       r.Level,
		UpdatedAt:   r.UpdatedAt,
	}
}

/* ---------- Users ---------- */

func (s *GormStore) GetUser(ctx context.Context, id int) (*entities.User, error) {
	var row gormModels.User
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return userFromRow(&row), nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var row gormModels.User
	if err := s.db.WithContext(ctx).First(&row, "username = ?", username).Error; err != nil {
		return nil, notFound(err)
	}
	return userFromRow(&row), nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var row gormModels.User
	if err := s.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return userFromRow(&row), nil
}

func (s *GormStore) CreateUser(ctx context.Context, ins dtos.InsertUser) (*entities.User, error) {
	role := constants.Role(ins.Role)
	if !role.Valid() {
		role = constants.RoleMember
	}
	active := true
	if ins.IsActive != nil {
		active = *ins.IsActive
	}

	now := time.Now()
	row := gormModels.User{
		Username:     ins.Username,
		Email:        ins.Email,
		PasswordHash: ins.Password,
		FirstName:    ins.FirstName,
		LastName:     ins.LastName,
		Role:         string(role),
		IsActive:     active,
		CompanyID:    ins.CompanyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := allocID(tx)
		if err != nil {
			return err
		}
		row.ID = id
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return userFromRow(&row), nil
}

/* ---------- Companies ---------- */

func (s *GormStore) GetCompany(ctx context.Context, id int) (*entities.Company, error) {
	var row gormModels.Company
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return companyFromRow(&row), nil
}

func (s *GormStore) GetCompanyBySlug(ctx context.Context, slug string) (*entities.Company, error) {
	var row gormModels.Company
	if err := s.db.WithContext(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return companyFromRow(&row), nil
}

func (s *GormStore) CreateCompany(ctx context.Context, ins dtos.InsertCompany) (*entities.Company, error) {
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

	row := gormModels.Company{
		Name:           ins.Name,
		Slug:           ins.Slug,
		Plan:           string(plan),
		CustomBranding: ins.CustomBranding,
		CustomDomain:   ins.CustomDomain,
		MaxSeats:       maxSeats,
		CreatedAt:      time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.Company{}).Where("slug = ?", ins.Slug).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateSlug
		}
		id, err := allocID(tx)
		if err != nil {
			return err
		}
		row.ID = id
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return companyFromRow(&row), nil
}

/* ---------- Communities ---------- */

func (s *GormStore) GetCommunity(ctx context.Context, id int) (*entities.Community, error) {
	var row gormModels.Community
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return communityFromRow(&row), nil
}

func (s *GormStore) GetCommunityBySlug(ctx context.Context, slug string) (*entities.Community, error) {
	var row gormModels.Community
	if err := s.db.WithContext(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return communityFromRow(&row), nil
}

func (s *GormStore) CreateCommunity(ctx context.Context, ins dtos.InsertCommunity) (*entities.Community, error) {
	active := true
	if ins.IsActive != nil {
		active = *ins.IsActive
	}
	theme := string(ins.Theme)
	if theme == "" {
		theme = "{}"
	}

	row := gormModels.Community{
		Name:        ins.Name,
		Slug:        ins.Slug,
		Description: ins.Description,
		OwnerID:     ins.OwnerID,
		Theme:       theme,
		IsActive:    active,
		CreatedAt:   time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&gormModels.Community{}).Where("slug = ?", ins.Slug).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateSlug
		}
		id, err := allocID(tx)
		if err != nil {
			return err
		}
		row.ID = id
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create community: %w", err)
	}
	return communityFromRow(&row), nil
}

func (s *GormStore) GetUserCommunities(ctx context.Context, ownerID int) ([]entities.Community, error) {
	var rows []gormModels.Community
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	out := make([]entities.Community, 0, len(rows))
	for i := range rows {
		out = append(out, *communityFromRow(&rows[i]))
	}
	return out, nil
}

/* ---------- Spaces ---------- */

func (s *GormStore) GetSpace(ctx context.Context, id int) (*entities.Space, error) {
	var row gormModels.Space
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	sp := spaceFromRow(&row)
	return &sp, nil
}

func (s *GormStore) GetCommunitySpaces(ctx context.Context, communityID int) ([]entities.Space, error) {
	var rows []gormModels.Space
	if err := s.db.WithContext(ctx).Where("community_id = ?", communityID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	out := make([]entities.Space, 0, len(rows))
	for i := range rows {
		out = append(out, spaceFromRow(&rows[i]))
	}
	return out, nil
}

func (s *GormStore) CreateSpace(ctx context.Context, ins dtos.InsertSpace) (*entities.Space, error) {
	public := true
	if ins.IsPublic != nil {
		public = *ins.IsPublic
	}
	row := gormModels.Space{
		CommunityID: ins.CommunityID,
		Name:        ins.Name,
		Type:        ins.Type,
		IsPublic:    public,
		CreatedAt:   time.Now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := allocID(tx)
		if err != nil {
			return err
		}
		row.ID = id
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create space: %w", err)
	}
	sp := spaceFromRow(&row)
	return &sp, nil
}

/* ---------- Posts ---------- */

func (s *GormStore) GetPost(ctx context.Context, id int) (*entities.Post, error) {
	var row gormModels.Post
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	p := postFromRow(&row)
	return &p, nil
}

func (s *GormStore) GetSpacePosts(ctx context.Context, spaceID int) ([]entities.Post, error) {
	var rows []gormModels.Post
	if err := s.db.WithContext(ctx).Where("space_id = ?", spaceID).
		Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]entities.Post, 0, len(rows))
	for i := range rows {
		out = append(out, postFromRow(&rows[i]))
	}
	return out, nil
}

func (s *GormStore) GetRecentPosts(ctx context.Context, communityID, limit int) ([]entities.PostWithAuthor, error) {
	if limit <= 0 {
		limit = constants.DefaultRecentPostsLimit
	}

	spaceIDs := s.db.Model(&gormModels.Space{}).Select("id").Where("community_id = ?", communityID)

	var rows []gormModels.Post
	if err := s.db.WithContext(ctx).Where("space_id IN (?)", spaceIDs).
		Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}

	out := make([]entities.PostWithAuthor, 0, len(rows))
	for i := range rows {
		row := entities.PostWithAuthor{Post: postFromRow(&rows[i])}
		var author gormModels.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", rows[i].AuthorID).Error; err == nil {
			row.Author = userFromRow(&author)
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *GormStore) CreatePost(ctx context.Context, ins dtos.InsertPost) (*entities.Post, error) {
	pinned := false
	if ins.IsPinned != nil {
		pinned = *ins.IsPinned
	}
	row := gormModels.Post{
		SpaceID:   ins.SpaceID,
		AuthorID:  ins.AuthorID,
		Title:     ins.Title,
		Content:   ins.Content,
		IsPinned:  pinned,
		CreatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := allocID(tx)
		if err != nil {
			return err
		}
		row.ID = id
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	p := postFromRow(&row)
	return &p, nil
}

func (s *GormStore) LikePost(ctx context.Context, postID int) (*entities.Post, error) {
	var row gormModels.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", postID).Error; err != nil {
			return notFound(err)
		}
		row.LikesCount++
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	p := postFromRow(&row)
	return &p, nil
}

/* ---------- Events ---------- */

func (s *GormStore) GetEvent(ctx context.Context, id int) (*entities.Event, error) {
	var row gormModels.Event
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	e := eventFromRow(&row)
	return &e, nil
}

func (s *GormStore) GetUpcomingEvents(ctx context.Context, communityID, limit int) ([]entities.Event, error) {
	if limit <= 0 {
		limit = constants.DefaultUpcomingEventsLimit
	}

	spaceIDs := s.db.Model(&gormModels.Space{}).Select("id").Where("community_id = ?", communityID)

	var rows []gormModels.Event
	if err := s.db.WithContext(ctx).Where("space_id IN (?) AND start_date > ?", spaceIDs, time.Now()).
		Order("start_date, id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	out := make([]entities.Event, 0, len(rows))
	for i := range rows {
		out = append(out, eventFromRow(&rows[i]))
	}
	return out, nil
}

func (s *GormStore) CreateEvent(ctx context.Context, ins dtos.InsertEvent) (*entities.Event, error) {
	var start time.Time
	if ins.StartDate != nil {
		start = *ins.StartDate
	}
	row := gormModels.Event{
		SpaceID:      ins.SpaceID,
		OrganizerID:  ins.OrganizerID,
		Title:        ins.Title,
		Description:  ins.Description,
		StartDate:    start,
		EndDate:      ins.EndDate,
		MaxAttendees: ins.MaxAttendees,
		CreatedAt:    time.Now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := allocID(tx)
		if err != nil {
			return err
		}
		row.ID = id
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	e := eventFromRow(&row)
	return &e, nil
}

func (s *GormStore) JoinEvent(ctx context.Context, eventID, _ int) (*entities.Event, error) {
	var row gormModels.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", eventID).Error; err != nil {
			return notFound(err)
		}
		row.AttendeesCount++
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	e := eventFromRow(&row)
	return &e, nil
}

func (s *GormStore) LeaveEvent(ctx context.Context, eventID, _ int) (*entities.Event, error) {
	var row gormModels.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", eventID).Error; err != nil {
			return notFound(err)
		}
		if row.AttendeesCount > 0 {
			row.AttendeesCount--
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	e := eventFromRow(&row)
	return &e, nil
}

/* ---------- Member points ---------- */

func (s *GormStore) GetMemberPoints(ctx context.Context, userID, communityID int) (*entities.MemberPoints, error) {
	var row gormModels.MemberPoints
	if err := s.db.WithContext(ctx).
		First(&row, "user_id = ? AND community_id = ?", userID, communityID).Error; err != nil {
		return nil, notFound(err)
	}
	return pointsFromRow(&row), nil
}

func (s *GormStore) GetTopMembers(ctx context.Context, communityID, limit int) ([]entities.MemberWithUser, error) {
	if limit <= 0 {
		limit = constants.DefaultTopMembersLimit
	}
	var rows []gormModels.MemberPoints
	if err := s.db.WithContext(ctx).Where("community_id = ?", communityID).
		Order("points DESC, user_id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list top members: %w", err)
	}

	out := make([]entities.MemberWithUser, 0, len(rows))
	for i := range rows {
		row := entities.MemberWithUser{MemberPoints: *pointsFromRow(&rows[i])}
		var user gormModels.User
		if err := s.db.WithContext(ctx).First(&user, "id = ?", rows[i].UserID).Error; err == nil {
			row.User = userFromRow(&user)
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *GormStore) UpdateMemberPoints(ctx context.Context, userID, communityID, points int) (*entities.MemberPoints, error) {
	row := gormModels.MemberPoints{
		UserID:      userID,
		CommunityID: communityID,
		Points:      points,
		Level:       levelFor(points, s.pointsPerLevel),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("upsert member points: %w", err)
	}
	return pointsFromRow(&row), nil
}

/* ---------- Aggregates ---------- */

func (s *GormStore) GetCommunityStats(ctx context.Context, communityID int) (*entities.CommunityStats, error) {
	spaceIDs := s.db.Model(&gormModels.Space{}).Select("id").Where("community_id = ?", communityID)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var postsToday, upcoming, courses, active int64
	db := s.db.WithContext(ctx)

	if err := db.Model(&gormModels.Post{}).
		Where("space_id IN (?) AND created_at >= ?", spaceIDs, midnight).
		Count(&postsToday).Error; err != nil {
		return nil, fmt.Errorf("count posts today: %w", err)
	}
	if err := db.Model(&gormModels.Event{}).
		Where("space_id IN (?) AND start_date > ?", spaceIDs, now).
		Count(&upcoming).Error; err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}
	if err := db.Model(&gormModels.Space{}).
		Where("community_id = ? AND type = ?", communityID, string(constants.SpaceTypeCourse)).
		Count(&courses).Error; err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	if err := db.Model(&gormModels.MemberPoints{}).
		Where("community_id = ?", communityID).
		Count(&active).Error; err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}

	return &entities.CommunityStats{
		PostsToday:     int(postsToday),
		UpcomingEvents: int(upcoming),
		Courses:        int(courses),
		ActiveMembers:  int(active),
	}, nil
}
