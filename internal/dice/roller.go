package dice

import (
	"math/rand"
	"time"
)

// Roller produces uniformly distributed integers in [1, sides]. The
// dice engine validates sides before calling, so implementations may
// assume sides >= 1.
//
// A Roller is not required to be safe for concurrent use. Give each
// encounter its own instance or serialize access; draws within a single
// roll operation must stay strictly ordered.
type Roller interface {
	Roll(sides int) int
}

// SeededRoller is a deterministic Roller backed by math/rand. The same
// seed always reproduces the same draw sequence.
type SeededRoller struct {
	src *rand.Rand
}

// NewSeeded creates a roller with an explicit seed for reproducible runs.
func NewSeeded(seed int64) *SeededRoller {
	return &SeededRoller{src: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded creates a roller seeded from the current time.
func NewTimeSeeded() *SeededRoller {
	return NewSeeded(time.Now().UnixNano())
}

// Roll returns a uniform draw in [1, sides].
func (r *SeededRoller) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// QueuedRoller returns a fixed sequence of results, for tests that need
// exact die faces. It panics when the queue runs dry, which in a test is
// the failure you want to see.
type QueuedRoller struct {
	queue []int
}

// NewQueued creates a roller that replays the given results in order.
func NewQueued(results ...int) *QueuedRoller {
	return &QueuedRoller{queue: results}
}

// Roll pops the next queued result.
func (r *QueuedRoller) Roll(sides int) int {
	if len(r.queue) == 0 {
		panic("dice: queued roller exhausted")
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	return next
}
