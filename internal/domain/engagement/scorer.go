// Package engagement turns a member's raw activity counters into a fan level.
// Levels are derived on every read and never persisted; the counters are the
// single source of truth.
package engagement

// Scoring weights.
const (
	DaysPerMonth         = 30
	PointsPerMonth       = 10
	PointsPerContentLike = 2
	PointsPerPostLike    = 1
	PointsPerComment     = 3
)

// MaxLevel is the top fan level; its threshold does not advance.
const MaxLevel = 7

// Activity is a snapshot of a member's lifetime counters. All fields are
// expected to be >= 0; callers clamp before scoring.
type Activity struct {
	AccountAgeDays   int `json:"accountAgeDays"`
	ContentLikeCount int `json:"contentLikeCount"`
	PostLikeCount    int `json:"postLikeCount"`
	CommentCount     int `json:"commentCount"`
}

// Breakdown holds the weighted contribution of each counter.
type Breakdown struct {
	AccountAgeScore int `json:"accountAgeScore"`
	ContentScore    int `json:"contentScore"`
	PostLikeScore   int `json:"postLikeScore"`
	CommentScore    int `json:"commentScore"`
}

// Result is the derived progression for one Activity snapshot.
type Result struct {
	FanLevel           int       `json:"fanLevel"`
	EngagementScore    int       `json:"engagementScore"`
	NextLevelThreshold int       `json:"nextLevelThreshold"`
	Breakdown          Breakdown `json:"breakdown"`
}

// band is a contiguous score range [min, next) mapped to a level.
type band struct {
	level int
	min   int
	next  int
}

// bands are ordered from the top level down so the first match wins.
var bands = []band{
	{level: 7, min: 500, next: 500},
	{level: 6, min: 300, next: 500},
	{level: 5, min: 200, next: 300},
	{level: 4, min: 120, next: 200},
	{level: 3, min: 75, next: 120},
	{level: 2, min: 50, next: 75},
	{level: 1, min: 0, next: 50},
}

var levelNames = map[int]string{
	1: "New Fan",
	2: "Fan",
	3: "Active Fan",
	4: "Supporter",
	5: "Enthusiast",
	6: "Superfan",
	7: "Legend",
}

// Score computes the weighted breakdown and total for an activity snapshot.
func Score(a Activity) Breakdown {
	return Breakdown{
		AccountAgeScore: (a.AccountAgeDays / DaysPerMonth) * PointsPerMonth,
		ContentScore:    a.ContentLikeCount * PointsPerContentLike,
		PostLikeScore:   a.PostLikeCount * PointsPerPostLike,
		CommentScore:    a.CommentCount * PointsPerComment,
	}
}

// Total sums the weighted components.
func (b Breakdown) Total() int {
	return b.AccountAgeScore + b.ContentScore + b.PostLikeScore + b.CommentScore
}

// Compute maps an activity snapshot to its fan level and next threshold.
func Compute(a Activity) Result {
	breakdown := Score(a)
	level, next := LevelFor(breakdown.Total())
	return Result{
		FanLevel:           level,
		EngagementScore:    breakdown.Total(),
		NextLevelThreshold: next,
		Breakdown:          breakdown,
	}
}

// LevelFor returns the level whose band contains score and that band's
// upper threshold. Scores below zero fall into level 1.
func LevelFor(score int) (level, nextThreshold int) {
	for _, b := range bands {
		if score >= b.min {
			return b.level, b.next
		}
	}
	last := bands[len(bands)-1]
	return last.level, last.next
}

// LevelName returns the display title for a level.
func LevelName(level int) string {
	if level >= MaxLevel {
		return levelNames[MaxLevel]
	}
	if name, ok := levelNames[level]; ok {
		return name
	}
	return levelNames[1]
}

// Progress reports how far the score has moved through the current band,
// as a percentage in [0, 100]. The top level always reports 100.
func (r Result) Progress() int {
	if r.FanLevel >= MaxLevel {
		return 100
	}
	floor := 0
	for _, b := range bands {
		if b.level == r.FanLevel {
			floor = b.min
			break
		}
	}
	span := r.NextLevelThreshold - floor
	if span <= 0 {
		return 100
	}
	pct := (r.EngagementScore - floor) * 100 / span
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
