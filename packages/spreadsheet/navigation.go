package spreadsheet

import "fmt"

// default navigable grid
const (
	DefaultMaxRows uint32 = 10000
	DefaultMaxCols uint32 = 10000
)

// Limits bounds cursor movement. storage stays sparse and is not limited.
type Limits struct {
	MaxRows uint32
	MaxCols uint32
}

// DefaultLimits returns the 10,000 x 10,000 grid
func DefaultLimits() Limits {
	return Limits{MaxRows: DefaultMaxRows, MaxCols: DefaultMaxCols}
}

// Direction is a single-step cursor move
type Direction uint8

const (
	DirectionUp    Direction = 0
	DirectionDown  Direction = 1
	DirectionLeft  Direction = 2
	DirectionRight Direction = 3
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	}
	return "unknown"
}

// ParseDirection maps "up", "down", "left" and "right" to a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	}
	return 0, NewApplicationError(InvalidArgument, fmt.Sprintf("unknown direction %q", s))
}

// Navigate moves one cell from id, clamped to [0, max-1] on both axes
func Navigate(id string, direction Direction, limits Limits) (string, error) {
	row, col, err := Decode(id)
	if err != nil {
		return "", err
	}
	if limits.MaxRows == 0 || limits.MaxCols == 0 {
		return "", NewApplicationError(InvalidArgument, "limits must allow at least one row and column")
	}

	switch direction {
	case DirectionUp:
		if row > 0 {
			row--
		}
	case DirectionDown:
		if row < limits.MaxRows-1 {
			row++
		}
	case DirectionLeft:
		if col > 0 {
			col--
		}
	case DirectionRight:
		if col < limits.MaxCols-1 {
			col++
		}
	default:
		return "", NewApplicationError(InvalidArgument, fmt.Sprintf("unknown direction %d", direction))
	}

	row = min(row, limits.MaxRows-1)
	col = min(col, limits.MaxCols-1)
	return Encode(row, col), nil
}
