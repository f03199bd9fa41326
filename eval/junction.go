package eval

import (
	"sync"

	"github.com/jaspr-lang/jaspr/value"
)

// Junction is a race among peer Branches in which the first to produce a
// result cancels the rest. $junction
// is the sole evaluator-level user of this type.
type Junction struct {
	mu    sync.Mutex
	done  bool
	peers []*Branch
	fiber *Fiber
}

// NewJunction spawns n peer Branches under parent and returns the Junction
// itself (callers report results through its Win method) together with the
// peer branches callers should run their n competing computations on.
func NewJunction(parent *Branch, n int) (*Junction, []*Branch) {
	j := &Junction{peers: make([]*Branch, n)}
	for i := range j.peers {
		j.peers[i] = parent.NewChild()
	}
	j.fiber = parent.NewFiber()
	return j, j.peers
}

// Fiber returns the junction's own Fiber, on which observers should Await.
func (j *Junction) Fiber() *Fiber { return j.fiber }

// Win reports that peer index i has produced v. The first call wins: every
// other peer is cancelled *before* the junction's own Fiber resolves, so
// that no observer sees the result before the losers have been told to
// stop: all other peers are cancelled before any observer of the
// junction is notified. Later calls (a straggler that was already
// cancelled but still completed a step before noticing) are no-ops.
func (j *Junction) Win(i int, v value.Value) {
	j.mu.Lock()
	if j.done {
		j.mu.Unlock()
		return
	}
	j.done = true
	j.mu.Unlock()

	for idx, p := range j.peers {
		if idx != i {
			p.Cancel()
		}
	}
	j.fiber.Resolve(v)
}
