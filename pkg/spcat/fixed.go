package spcat

import (
	"math"
	"strconv"
	"strings"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// column is a half-open byte range within a fixed-width line.
type column struct {
	name       string
	start, end int
}

// field returns the trimmed text of col, or "" when the line ends before it.
func (c column) field(line string) string {
	if c.start >= len(line) {
		return ""
	}
	end := min(c.end, len(line))
	return strings.TrimSpace(line[c.start:end])
}

// float parses col as a required finite float.
func (c column) float(line string, n int) (float64, error) {
	s := c.field(line)
	if s == "" {
		return 0, errs.Parse("line %d: missing %s", n, c.name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeParse, err, "line %d: invalid %s %q", n, c.name, s)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errs.Parse("line %d: %s must be finite, got %q", n, c.name, s)
	}
	return v, nil
}

// int parses col as an optional integer; blank yields 0.
func (c column) int(line string, n int) (int, error) {
	s := c.field(line)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeParse, err, "line %d: invalid %s %q", n, c.name, s)
	}
	return v, nil
}

// layout builds consecutive columns from widths.
func layout(names []string, widths []int) []column {
	cols := make([]column, len(widths))
	start := 0
	for i, w := range widths {
		cols[i] = column{name: names[i], start: start, end: start + w}
		start += w
	}
	return cols
}
