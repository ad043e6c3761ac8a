// Package plot maps two result columns onto x/y points and draws them as a
// line or scatter chart on a text canvas.
package plot

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapview/internal/result"
)

// Kind is the chart style.
type Kind string

const (
	// KindLine connects points in row order.
	KindLine Kind = "line"
	// KindScatter draws markers only.
	KindScatter Kind = "scatter"
)

// Kinds lists the supported chart kinds in cycling order.
var Kinds = []Kind{KindLine, KindScatter}

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLine, KindScatter:
		return k, nil
	case "":
		return KindLine, nil
	default:
		return "", fmt.Errorf("unknown plot kind %q (want line or scatter)", s)
	}
}

// Next returns the kind after k in Kinds.
func (k Kind) Next() Kind {
	for i, kind := range Kinds {
		if kind == k {
			return Kinds[(i+1)%len(Kinds)]
		}
	}
	return KindLine
}

// Point is one plotted value pair.
type Point struct {
	X, Y float64
}

// Mapper selects the result columns used for the x and y axes.
type Mapper struct {
	X int
	Y int
}

// DefaultMapper plots the second column against the first.
func DefaultMapper() Mapper {
	return Mapper{X: 0, Y: 1}
}

// Validate checks that both columns exist in set.
func (m Mapper) Validate(set *result.Set) error {
	if set.Empty() {
		return fmt.Errorf("nothing to plot: no result")
	}
	n := len(set.Columns)
	if n < 2 {
		return fmt.Errorf("nothing to plot: result has %d column(s), need at least 2", n)
	}
	if m.X < 0 || m.X >= n {
		return fmt.Errorf("x column %d out of range (result has %d columns)", m.X, n)
	}
	if m.Y < 0 || m.Y >= n {
		return fmt.Errorf("y column %d out of range (result has %d columns)", m.Y, n)
	}
	return nil
}

// Labels returns the header names of the mapped columns.
func (m Mapper) Labels(set *result.Set) (x, y string) {
	if m.Validate(set) != nil {
		return "", ""
	}
	return set.Columns[m.X], set.Columns[m.Y]
}

// Points converts the mapped columns of set to points. Rows with a NULL y
// value are skipped. When any x value is not numeric the row ordinal is
// used for x instead; a y value that is not numeric is an error.
func (m Mapper) Points(set *result.Set) ([]Point, error) {
	if err := m.Validate(set); err != nil {
		return nil, err
	}

	ordinalX := false
	for _, row := range set.Rows {
		if _, ok := ToFloat(row[m.X]); !ok && row[m.X] != nil {
			ordinalX = true
			break
		}
	}

	points := make([]Point, 0, len(set.Rows))
	for i, row := range set.Rows {
		if row[m.Y] == nil {
			continue
		}
		y, ok := ToFloat(row[m.Y])
		if !ok {
			return nil, fmt.Errorf("column %q: value %v in row %d is not numeric",
				set.Columns[m.Y], row[m.Y], i+1)
		}

		x := float64(i)
		if !ordinalX {
			if row[m.X] == nil {
				continue
			}
			x, _ = ToFloat(row[m.X])
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// ToFloat converts an engine value to a float. Times become unix seconds;
// strings are accepted when they hold a number or an ISO date.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case time.Time:
		return float64(n.Unix()), true
	case string:
		return parseString(n)
	case interface{ Float64() float64 }:
		return n.Float64(), true
	default:
		return 0, false
	}
}

var timeLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly}

func parseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, !math.IsNaN(f)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Unix()), true
		}
	}
	return 0, false
}
