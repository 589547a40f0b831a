package overlay

import (
	"sort"
	"sync"
)

// GridPos identifies the screen region an overlay entry is drawn in.
type GridPos int

const (
	GridTopLeft GridPos = iota
	GridTopRight
	GridBottomLeft
	GridBottomRight
)

func (p GridPos) String() string {
	switch p {
	case GridTopLeft:
		return "top-left"
	case GridTopRight:
		return "top-right"
	case GridBottomLeft:
		return "bottom-left"
	case GridBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// Entry is the pair of caption columns stored at one grid position.
type Entry struct {
	Pos   GridPos
	TextA string
	TextB string
}

type boardImpl struct {
	mu      *sync.Mutex
	entries map[GridPos]*Entry
}

// Board maps grid positions to caption pairs that persist across frames until cleared.
type Board interface {
	// Add appends a line to each caption column at pos. Each line is stored with a trailing
	// newline, so repeated calls concatenate rather than replace.
	//
	// Parameters:
	//   - pos: the grid position
	//   - a: line for the first column
	//   - b: line for the second column
	Add(pos GridPos, a, b string)

	// Get returns the entry at pos.
	//
	// Parameters:
	//   - pos: the grid position
	//
	// Returns:
	//   - Entry: the stored captions
	//   - bool: false if nothing was added at pos
	Get(pos GridPos) (Entry, bool)

	// Entries returns all entries in ascending grid position order.
	//
	// Returns:
	//   - []Entry: the entries
	Entries() []Entry

	// Len returns the number of occupied grid positions.
	Len() int

	// Clear removes every entry.
	Clear()
}

var _ Board = &boardImpl{}

// NewBoard creates an empty overlay board.
//
// Returns:
//   - Board: the board
func NewBoard() Board {
	return &boardImpl{
		mu:      &sync.Mutex{},
		entries: make(map[GridPos]*Entry),
	}
}

func (b *boardImpl) Add(pos GridPos, a, bText string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[pos]
	if !ok {
		e = &Entry{Pos: pos}
		b.entries[pos] = e
	}
	e.TextA += a + "\n"
	e.TextB += bText + "\n"
}

func (b *boardImpl) Get(pos GridPos) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[pos]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (b *boardImpl) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

func (b *boardImpl) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *boardImpl) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.entries)
}
