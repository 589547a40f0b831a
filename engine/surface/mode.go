package surface

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/common"
)

// Mode selects the buffer target of a drawing surface.
type Mode int

const (
	// ModeOffscreen renders into an invisible buffer.
	ModeOffscreen Mode = iota
	// ModeOnscreen renders into a visible window.
	ModeOnscreen
)

func (m Mode) String() string {
	switch m {
	case ModeOffscreen:
		return "offscreen"
	case ModeOnscreen:
		return "onscreen"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "offscreen" or "onscreen", case-insensitively.
//
// Parameters:
//   - s: the mode name
//
// Returns:
//   - Mode: the parsed mode
//   - error: common.ErrConfiguration for unknown names
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "offscreen", "window-offscreen", "":
		return ModeOffscreen, nil
	case "onscreen", "window":
		return ModeOnscreen, nil
	default:
		return 0, fmt.Errorf("unknown surface mode %q: %w", s, common.ErrConfiguration)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeOffscreen, ModeOnscreen:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal %s: %w", m, common.ErrConfiguration)
	}
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
