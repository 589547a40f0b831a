package marker

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/scene"
)

type poolImpl struct {
	mu      *sync.Mutex
	markers []Params
}

// Pool is the ordered queue of pending markers. Entries persist across frames until Clear is
// called; every Inject re-adds the whole queue from scratch.
type Pool interface {
	// Add enqueues a copy of p. Validation is deferred to Inject. A nil record is ignored.
	//
	// Parameters:
	//   - p: the marker record
	Add(p *Params)

	// Clear empties the queue.
	Clear()

	// Len returns the number of pending markers.
	//
	// Returns:
	//   - int: pending marker count
	Len() int

	// Markers returns copies of the pending markers in insertion order.
	//
	// Returns:
	//   - []Params: the pending markers
	Markers() []Params

	// Inject appends every pending marker to s in insertion order. On any error the scene's live
	// count is rolled back to its value before the call.
	//
	// Parameters:
	//   - s: the scene arena
	//
	// Returns:
	//   - error: *common.ValidationError or *common.CapacityError
	Inject(s scene.Scene) error
}

var _ Pool = &poolImpl{}

// NewPool creates an empty marker queue.
//
// Returns:
//   - Pool: the queue
func NewPool() Pool {
	return &poolImpl{mu: &sync.Mutex{}}
}

func (p *poolImpl) Add(params *Params) {
	if params == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markers = append(p.markers, params.clone())
}

func (p *poolImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markers = nil
}

func (p *poolImpl) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.markers)
}

func (p *poolImpl) Markers() []Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Params, len(p.markers))
	for i, m := range p.markers {
		out[i] = m.clone()
	}
	return out
}

func (p *poolImpl) Inject(s scene.Scene) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	mark := s.Len()
	for i, m := range p.markers {
		g, err := Build(m)
		if err == nil {
			err = s.Append(g)
		}
		if err != nil {
			s.Truncate(mark)
			return fmt.Errorf("marker %d: %w", i, err)
		}
	}
	return nil
}
