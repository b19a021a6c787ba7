package clock

import (
	"fmt"
	"signin/internal/structures"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the createdAt format stamped on records.
const TimeLayout = "2006-01-02 15:04:05"

// IDGenerator hands out record identifiers that are never reused within a process.
type IDGenerator interface {
	NextID() string
}

// TimestampGenerator issues millisecond timestamps as decimal strings.
// Two calls inside the same millisecond get consecutive values, so ids stay
// unique and strictly increasing even when the wall clock stalls or steps back.
type TimestampGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

func NewTimestampGenerator(now func() time.Time) *TimestampGenerator {
	if now == nil {
		now = time.Now
	}
	return &TimestampGenerator{now: now}
}

func (g *TimestampGenerator) NextID() string {
	for {
		last := g.last.Load()
		next := max(g.now().UnixMilli(), last+1)
		if g.last.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}

// Seed moves the generator past id. Non-numeric ids are ignored.
func (g *TimestampGenerator) Seed(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	for {
		last := g.last.Load()
		if n <= last || g.last.CompareAndSwap(last, n) {
			return
		}
	}
}

// UUIDGenerator issues time-ordered UUIDv7 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NextID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Clock pairs an id generator with the local-time formatter used for createdAt.
type Clock struct {
	ids IDGenerator
	loc *time.Location
	now func() time.Time
}

func New(ids IDGenerator, loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{ids: ids, loc: loc, now: now}
}

// NewClockProvider builds the clock described by the signin config section.
func NewClockProvider(conf *structures.Config) (*Clock, error) {
	loc := time.Local
	if tz := conf.SignIn.Timezone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		loc = l
	}

	var ids IDGenerator
	switch conf.SignIn.IDStrategy {
	case "", "timestamp":
		ids = NewTimestampGenerator(nil)
	case "uuid":
		ids = UUIDGenerator{}
	default:
		return nil, fmt.Errorf("unknown id strategy %q", conf.SignIn.IDStrategy)
	}
	return New(ids, loc, nil), nil
}

func (c *Clock) NextID() string {
	return c.ids.NextID()
}

// Timestamp formats the current wall-clock time in the configured zone.
func (c *Clock) Timestamp() string {
	return c.now().In(c.loc).Format(TimeLayout)
}

// Seed forwards the newest persisted id to generators that can resume from it.
func (c *Clock) Seed(id string) {
	if s, ok := c.ids.(interface{ Seed(string) }); ok {
		s.Seed(id)
	}
}
