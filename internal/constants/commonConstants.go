package constants

type (
	SpaceType   string
	PlanTier    string
	CachePrefix string
)

const (
	SpaceTypePost    SpaceType = "post"
	SpaceTypeCourse  SpaceType = "course"
	SpaceTypeEvent   SpaceType = "event"
	SpaceTypeRanking SpaceType = "ranking"

	PlanBasic        PlanTier = "basic"
	PlanIntermediate PlanTier = "intermediate"
	PlanPremium      PlanTier = "premium"

	CachePrefixCommunityStats CachePrefix = "STATS_"
)

// DefaultPointsPerLevel is the divisor in level = points/divisor + 1.
// The two legacy stores disagreed (50 vs 500); 50 is the seeded store's
// value and stands until product settles the question. Override per store
// via its PointsPerLevel field.
const DefaultPointsPerLevel = 50

const (
	// DemoUserID is the user returned by /api/auth/me when no bearer
	// token is presented.
	DemoUserID = 1

	DefaultRecentPostsLimit    = 10
	DefaultUpcomingEventsLimit = 5
	DefaultTopMembersLimit     = 5
)

// Valid reports whether t is a known space type.
func (t SpaceType) Valid() bool {
	switch t {
	case SpaceTypePost, SpaceTypeCourse, SpaceTypeEvent, SpaceTypeRanking:
		return true
	}
	return false
}
