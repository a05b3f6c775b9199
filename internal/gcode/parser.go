package gcode

import (
	"math"
	"strconv"
	"strings"
)

// DefaultRapidRate is the travel speed assumed for time estimates, mm/min.
const DefaultRapidRate = 10000.0

// MoveType tells what the knife does during a move.
type MoveType int

const (
	MoveRapid   MoveType = iota // knife up, travelling
	MoveFeed                    // knife down, cutting in XY
	MovePlunge                  // knife lowered onto the media
	MoveRetract                 // knife lifted
)

// GCodeMove represents a single parsed movement from GCode.
type GCodeMove struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// knifeSurface is the Z height of the media surface. The knife cuts at or
// below it and travels above it.
const knifeSurface = 0.0

// zTolerance ignores Z changes smaller than the machine resolution.
const zTolerance = 0.001

type position struct{ x, y, z float64 }

// word is one letter/value pair of a block, e.g. X12.5.
type word struct {
	letter byte
	value  float64
}

// parseBlock splits one program line into words. Comments are dropped and
// compact blocks such as "G1X10Y5" are accepted.
func parseBlock(line string) []word {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			break
		}
		end := strings.IndexByte(line[open:], ')')
		if end < 0 {
			line = line[:open]
			break
		}
		line = line[:open] + " " + line[open+end+1:]
	}
	line = strings.ToUpper(line)

	var words []word
	for i := 0; i < len(line); {
		c := line[i]
		if c < 'A' || c > 'Z' {
			i++
			continue
		}
		j := i + 1
		for j < len(line) && strings.IndexByte("+-.0123456789", line[j]) >= 0 {
			j++
		}
		if v, err := strconv.ParseFloat(line[i+1:j], 64); err == nil {
			words = append(words, word{letter: c, value: v})
		}
		i = j
	}
	return words
}

// knifeTracker follows the machine through a program. Motion modes are
// modal: a block with only coordinates repeats the last G0/G1.
type knifeTracker struct {
	pos    position
	feed   float64
	motion int  // 0 or 1, -1 before the first linear motion word
	zKnown bool // the knife is treated as up until a Z word is seen
}

func (t *knifeTracker) knifeDown() bool {
	return t.zKnown && t.pos.z <= knifeSurface
}

// step applies one block and returns the move it produced, if any.
func (t *knifeTracker) step(words []word) (GCodeMove, bool) {
	next := t.pos
	axes := false
	zWord := false
	for _, w := range words {
		switch w.letter {
		case 'G':
			switch w.value {
			case 0, 1:
				t.motion = int(w.value)
			case 2, 3:
				t.motion = -1 // arcs are not traced
			}
		case 'X':
			next.x, axes = w.value, true
		case 'Y':
			next.y, axes = w.value, true
		case 'Z':
			next.z, axes, zWord = w.value, true, true
		case 'F':
			t.feed = w.value
		}
	}
	if !axes || t.motion < 0 {
		return GCodeMove{}, false
	}

	from := t.pos
	t.pos = next
	if zWord {
		t.zKnown = true
	}
	return GCodeMove{
		Type:     classify(from, next, t.knifeDown()),
		FromX:    from.x,
		FromY:    from.y,
		FromZ:    from.z,
		ToX:      next.x,
		ToY:      next.y,
		ToZ:      next.z,
		FeedRate: t.feed,
	}, true
}

// ParseGCode parses a GCode string into a slice of structured moves.
// Only linear G0/G1 motion is reported; each move is named by the knife
// state rather than the G word, so a G1 above the media is travel and a
// G0 with the knife down still cuts.
func ParseGCode(code string) []GCodeMove {
	t := knifeTracker{motion: -1}
	var moves []GCodeMove
	for _, line := range strings.Split(code, "\n") {
		if m, ok := t.step(parseBlock(line)); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// classify names a move from its end points and whether the knife is down
// once it completes.
func classify(from, to position, downAfter bool) MoveType {
	hasXY := from.x != to.x || from.y != to.y
	dz := to.z - from.z

	switch {
	case !hasXY && dz < -zTolerance && downAfter:
		return MovePlunge
	case !hasXY && dz > zTolerance:
		return MoveRetract
	case downAfter:
		return MoveFeed
	case dz > zTolerance:
		return MoveRetract
	default:
		return MoveRapid
	}
}

// Length returns the XY distance travelled by the move.
func (m GCodeMove) Length() float64 {
	return math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
}

// ProgramStats summarises a parsed program.
type ProgramStats struct {
	CutLength    float64 // mm travelled with the knife down
	TravelLength float64 // mm travelled with rapid moves
	Plunges      int
}

// EstimatedMinutes returns the cutting time at feedRate plus travel time at
// rapidRate, both in mm/min. Plunges are not included.
func (s ProgramStats) EstimatedMinutes(feedRate, rapidRate float64) float64 {
	var t float64
	if feedRate > 0 {
		t += s.CutLength / feedRate
	}
	if rapidRate > 0 {
		t += s.TravelLength / rapidRate
	}
	return t
}

// Summarize totals the moves of a program.
func Summarize(moves []GCodeMove) ProgramStats {
	var s ProgramStats
	for _, m := range moves {
		switch m.Type {
		case MoveFeed:
			s.CutLength += m.Length()
		case MoveRapid:
			s.TravelLength += m.Length()
		case MovePlunge:
			s.Plunges++
		}
	}
	return s
}
