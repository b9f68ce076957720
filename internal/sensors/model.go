// Package sensors builds typed reports from lm-sensors text output.
package sensors

import (
	"codeberg.org/mutker/hwstat/internal/temperature"
)

// Sensor is one temperature input of a chip with its thresholds.
// Thresholds the tool did not print are -inf (Low) and +inf (High, Crit).
type Sensor struct {
	Name    string                  `json:"name" yaml:"name"`
	Current temperature.Temperature `json:"current" yaml:"current"`
	Low     temperature.Temperature `json:"low" yaml:"low"`
	High    temperature.Temperature `json:"high" yaml:"high"`
	Crit    temperature.Temperature `json:"crit" yaml:"crit"`
}

// WithCrit returns a copy of s with its critical threshold replaced.
func (s Sensor) WithCrit(crit temperature.Temperature) Sensor {
	s.Crit = crit
	return s
}

// IsLow reports whether the reading is at or below the low threshold.
func (s Sensor) IsLow() bool {
	return s.Current.LessOrEqual(s.Low)
}

// IsHigh reports whether the reading has reached the high threshold.
func (s Sensor) IsHigh() bool {
	return s.Current.GreaterOrEqual(s.High)
}

// IsCrit reports whether the reading has reached the critical threshold.
func (s Sensor) IsCrit() bool {
	return s.Current.GreaterOrEqual(s.Crit)
}

// Group is every sensor reported under one chip.
type Group struct {
	Name    string   `json:"name" yaml:"name"`
	Adapter string   `json:"adapter" yaml:"adapter"`
	Sensors []Sensor `json:"sensors" yaml:"sensors"`

	index map[string]int
}

// Sensor looks a sensor up by name.
func (g *Group) Sensor(name string) (Sensor, bool) {
	if g.index != nil {
		i, ok := g.index[name]
		if !ok {
			return Sensor{}, false
		}
		return g.Sensors[i], true
	}

	for _, s := range g.Sensors {
		if s.Name == name {
			return s, true
		}
	}
	return Sensor{}, false
}

// Names returns sensor names in the order they were printed.
func (g *Group) Names() []string {
	names := make([]string, len(g.Sensors))
	for i, s := range g.Sensors {
		names[i] = s.Name
	}
	return names
}

// Report is the result of parsing one sensors invocation. Groups keep the
// order in which the tool printed them.
type Report struct {
	Groups []*Group `json:"groups" yaml:"groups"`

	index map[string]int
}

// Group looks a chip up by name.
func (r *Report) Group(name string) (*Group, bool) {
	if r.index != nil {
		i, ok := r.index[name]
		if !ok {
			return nil, false
		}
		return r.Groups[i], true
	}

	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Len returns the number of sensors across all groups.
func (r *Report) Len() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Sensors)
	}
	return n
}
