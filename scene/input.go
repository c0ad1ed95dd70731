package scene

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DisplayMode selects what a frame draws.
type DisplayMode int

const (
	// ModeUnchanged keeps the current mode when used in Input.
	ModeUnchanged DisplayMode = iota
	// ModePoints draws every field sample.
	ModePoints
	// ModeMesh draws the cached cell polygons.
	ModeMesh
)

func (m DisplayMode) String() string {
	switch m {
	case ModeUnchanged:
		return "unchanged"
	case ModePoints:
		return "points"
	case ModeMesh:
		return "mesh"
	}
	return "DisplayMode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode parses a display mode name as printed by DisplayMode.String.
func ParseMode(s string) (DisplayMode, error) {
	switch s {
	case "points":
		return ModePoints, nil
	case "mesh":
		return ModeMesh, nil
	}
	return ModeUnchanged, errors.Errorf("unknown display mode %q", s)
}

// Input is the user input polled for one frame.
type Input struct {
	Quit bool
	// Regenerate is true while the regenerate trigger is held.
	Regenerate bool
	// ThresholdSteps raises (positive) or lowers (negative) the threshold
	// by that many steps.
	ThresholdSteps int
	Mode           DisplayMode
	// Orbit keys held this frame.
	Up, Down, Left, Right bool
}

// ParseScript reads a key script, one frame per line. Tokens are:
//
//	r      hold regenerate
//	+ -    raise or lower the threshold one step
//	p o    points or mesh mode
//	w s    orbit up or down
//	a d    orbit left or right
//	q      quit
//
// A line ending in *N is repeated N times, blank lines are idle frames and
// everything after # is ignored.
func ParseScript(r io.Reader) ([]Input, error) {
	var frames []Input
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		repeat := 1
		if len(fields) > 0 && strings.HasPrefix(fields[len(fields)-1], "*") {
			n, err := strconv.Atoi(fields[len(fields)-1][1:])
			if err != nil || n < 1 {
				return nil, errors.Errorf("line %d: bad repeat %q", line, fields[len(fields)-1])
			}
			repeat = n
			fields = fields[:len(fields)-1]
		}
		var in Input
		for _, tok := range fields {
			for _, key := range tok {
				if err := in.press(key); err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
			}
		}
		for i := 0; i < repeat; i++ {
			frames = append(frames, in)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return frames, nil
}

func (in *Input) press(key rune) error {
	switch key {
	case 'r':
		in.Regenerate = true
	case '+':
		in.ThresholdSteps++
	case '-':
		in.ThresholdSteps--
	case 'p':
		in.Mode = ModePoints
	case 'o':
		in.Mode = ModeMesh
	case 'w':
		in.Up = true
	case 's':
		in.Down = true
	case 'a':
		in.Left = true
	case 'd':
		in.Right = true
	case 'q':
		in.Quit = true
	default:
		return errors.Errorf("unknown key %q", key)
	}
	return nil
}
