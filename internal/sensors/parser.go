package sensors

import (
	"context"
	"strings"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/pattern"
	"codeberg.org/mutker/hwstat/internal/segment"
	"codeberg.org/mutker/hwstat/internal/temperature"
	"golang.org/x/sync/errgroup"
)

const adapterLabel = "Adapter"

// Parse builds a Report from the full stdout of one sensors run. Chip
// blocks are built concurrently; any failing block fails the whole report.
func Parse(ctx context.Context, text string) (*Report, error) {
	blocks := segment.SplitSensors(text)
	groups := make([]*Group, len(blocks))

	eg, ctx := errgroup.WithContext(ctx)
	for i, block := range blocks {
		i, block := i, block
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := ParseGroup(block)
			if err != nil {
				return err
			}
			groups[i] = g
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return NewReport(groups)
}

// NewReport assembles groups into a Report, rejecting repeated chip names.
func NewReport(groups []*Group) (*Report, error) {
	report := &Report{
		Groups: groups,
		index:  make(map[string]int, len(groups)),
	}

	for i, g := range groups {
		if _, dup := report.index[g.Name]; dup {
			return nil, errors.New().WithData(ErrDuplicateKey, lineError{
				Group:  g.Name,
				Reason: "chip reported more than once",
			})
		}
		report.index[g.Name] = i
	}

	return report, nil
}

// ParseGroup builds one chip block: name line, adapter line, then
// readings and composite continuation lines.
func ParseGroup(block segment.Block) (*Group, error) {
	errFactory := errors.New()

	if len(block.Lines) < 2 {
		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Group:  firstLine(block.Lines),
			Line:   block.Line,
			Reason: "chip block has no adapter line",
		})
	}

	group := &Group{
		Name:  strings.TrimSpace(block.Lines[0]),
		index: make(map[string]int),
	}

	adapter, ok := pattern.MatchAdapter(block.Lines[1])
	if !ok || adapter.Label != adapterLabel {
		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Group:  group.Name,
			Line:   block.Line + 1,
			Text:   block.Lines[1],
			Reason: "expected '" + adapterLabel + "' label, found '" + adapter.Label + "'",
		})
	}
	group.Adapter = adapter.Adapter

	for n, line := range block.Lines[2:] {
		lineNo := block.Line + 2 + n
		if strings.TrimSpace(line) == "" {
			continue
		}

		if rc, ok := pattern.MatchReading(line); ok {
			sensor, err := buildSensor(rc)
			if err != nil {
				return nil, errFactory.Wrap(ErrStructuralMismatch, err).WithData(lineError{
					Group: group.Name, Line: lineNo, Text: line, Reason: err.Error(),
				})
			}
			if _, dup := group.index[sensor.Name]; dup {
				return nil, errFactory.WithData(ErrDuplicateKey, lineError{
					Group:  group.Name,
					Line:   lineNo,
					Text:   line,
					Reason: "sensor '" + sensor.Name + "' reported more than once",
				})
			}
			group.index[sensor.Name] = len(group.Sensors)
			group.Sensors = append(group.Sensors, sensor)
			continue
		}

		if crit, ok := pattern.MatchContinuation(line); ok {
			if len(group.Sensors) == 0 {
				return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
					Group: group.Name, Line: lineNo, Text: line,
					Reason: "continuation line without a preceding sensor",
				})
			}
			t, err := toTemperature(&crit, temperature.PosInf())
			if err != nil {
				return nil, errFactory.Wrap(ErrStructuralMismatch, err)
			}
			last := len(group.Sensors) - 1
			group.Sensors[last] = group.Sensors[last].WithCrit(t)
			continue
		}

		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Group: group.Name, Line: lineNo, Text: line,
			Reason: "not a temperature reading",
		})
	}

	return group, nil
}

func buildSensor(rc pattern.ReadingCapture) (Sensor, error) {
	current, err := temperature.Parse(rc.Current.Number, rc.Current.Unit)
	if err != nil {
		return Sensor{}, err
	}

	low, err := toTemperature(rc.Low, temperature.NegInf())
	if err != nil {
		return Sensor{}, err
	}
	high, err := toTemperature(rc.High, temperature.PosInf())
	if err != nil {
		return Sensor{}, err
	}
	crit, err := toTemperature(rc.Crit, temperature.PosInf())
	if err != nil {
		return Sensor{}, err
	}

	return Sensor{
		Name:    rc.Name,
		Current: current,
		Low:     low,
		High:    high,
		Crit:    crit,
	}, nil
}

// toTemperature converts an optional capture, falling back to def when the
// threshold was not printed.
func toTemperature(v *pattern.Value, def temperature.Temperature) (temperature.Temperature, error) {
	if v == nil {
		return def, nil
	}
	return temperature.Parse(v.Number, v.Unit)
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}
