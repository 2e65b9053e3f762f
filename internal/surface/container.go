package surface

import (
	"sync"

	"github.com/ironsheep/image-resize-mcp/internal/logger"
)

// Container tracks which surfaces are attached to it. Implementations only
// keep membership; the surface's parent link is maintained by Mount and
// Reclaim.
type Container interface {
	Attach(s *Surface)
	Detach(s *Surface)
	IsAttached(s *Surface) bool
}

// Mount attaches s to c, moving it out of any container it was already in.
func Mount(c Container, s *Surface) {
	s.mu.Lock()
	prev := s.parent
	if prev == c {
		s.mu.Unlock()
		return
	}
	s.parent = c
	s.mu.Unlock()

	if prev != nil {
		prev.Detach(s)
	}
	c.Attach(s)
}

// Reclaim detaches s from its parent container. A surface with no parent,
// a repeated call, or a nil surface is a no-op.
func Reclaim(s *Surface) {
	if s == nil {
		return
	}
	s.mu.Lock()
	p := s.parent
	s.parent = nil
	s.mu.Unlock()

	if p != nil {
		p.Detach(s)
	}
}

// Stage is the default Container: a concurrency-safe membership set.
type Stage struct {
	mu      sync.Mutex
	members map[*Surface]struct{}
	log     logger.Logger
}

var _ Container = (*Stage)(nil)

// NewStage returns an empty stage.
func NewStage(log logger.Logger) *Stage {
	if log == nil {
		log = logger.NewTestLogger()
	}
	return &Stage{
		members: make(map[*Surface]struct{}),
		log:     log,
	}
}

// Attach adds s to the stage.
func (st *Stage) Attach(s *Surface) {
	st.mu.Lock()
	st.members[s] = struct{}{}
	n := len(st.members)
	st.mu.Unlock()

	st.log.WithField("surface", s.ID()).Debugf("attached %dx%d surface (%d live)", s.Width(), s.Height(), n)
}

// Detach removes s from the stage. Detaching a non-member is a no-op.
func (st *Stage) Detach(s *Surface) {
	st.mu.Lock()
	_, ok := st.members[s]
	delete(st.members, s)
	n := len(st.members)
	st.mu.Unlock()

	if ok {
		st.log.WithField("surface", s.ID()).Debugf("detached surface (%d live)", n)
	}
}

// IsAttached reports whether s is on the stage.
func (st *Stage) IsAttached(s *Surface) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.members[s]
	return ok
}

// Len is the number of attached surfaces, reported by engine_status.
func (st *Stage) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.members)
}
