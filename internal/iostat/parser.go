package iostat

import (
	"strconv"
	"strings"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/pattern"
	"codeberg.org/mutker/hwstat/internal/segment"
)

// Parse builds a Snapshot from the full stdout of one iostat run.
// Missing sections are not an error; unreadable ones are.
func Parse(text string) (*Snapshot, error) {
	sections := segment.SplitIOStat(text)
	snapshot := &Snapshot{}

	if kc, ok := pattern.MatchKernel(sections.Header); ok {
		snapshot.Kernel = &KernelInfo{
			Kernel:       kc.Kernel,
			Date:         kc.Date,
			Architecture: kc.Architecture,
			CPUCount:     kc.CPUCount,
		}
	}

	if sections.CPU != nil {
		cpu, err := buildCPU(sections.CPU)
		if err != nil {
			return nil, err
		}
		snapshot.CPU = cpu
	}

	if sections.Devices != nil {
		table, err := buildDevices(sections.Devices)
		if err != nil {
			return nil, err
		}
		snapshot.Devices = table
	}

	return snapshot, nil
}

func buildCPU(block []string) (*CPUStats, error) {
	errFactory := errors.New()

	columns, ok := pattern.MatchCPUHeader(block[0])
	if !ok {
		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Section: "avg-cpu",
			Line:    block[0],
			Reason:  "header has no columns",
		})
	}
	if len(block) < 2 {
		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Section: "avg-cpu",
			Line:    block[0],
			Reason:  "missing value line",
		})
	}

	if err := uniqueColumns("avg-cpu", block[0], columns); err != nil {
		return nil, err
	}

	values := strings.Fields(block[1])
	if len(values) != len(columns) {
		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Section: "avg-cpu",
			Line:    block[1],
			Reason:  "expected " + strconv.Itoa(len(columns)) + " values, found " + strconv.Itoa(len(values)),
		})
	}

	fields, err := toFields("avg-cpu", columns, values)
	if err != nil {
		return nil, err
	}

	return &CPUStats{Fields: fields}, nil
}

func buildDevices(block []string) (*DeviceTable, error) {
	errFactory := errors.New()

	columns, ok := pattern.MatchDeviceHeader(block[0])
	if !ok {
		return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
			Section: "device",
			Line:    block[0],
			Reason:  "not a device header",
		})
	}

	if err := uniqueColumns("device", block[0], columns); err != nil {
		return nil, err
	}

	table := &DeviceTable{
		Columns: columns,
		Rows:    make([]DeviceRow, 0, len(block)-1),
	}

	seen := make(map[string]bool, len(block)-1)
	for _, line := range block[1:] {
		cells := strings.Fields(line)
		if len(cells) != len(columns) {
			return nil, errFactory.WithData(ErrStructuralMismatch, lineError{
				Section: "device",
				Line:    line,
				Reason:  "expected " + strconv.Itoa(len(columns)) + " cells, found " + strconv.Itoa(len(cells)),
			})
		}

		if seen[cells[0]] {
			return nil, errFactory.WithData(ErrDuplicateKey, lineError{
				Section: "device",
				Line:    line,
				Reason:  "device " + cells[0] + " listed twice",
			})
		}
		seen[cells[0]] = true

		fields, err := toFields("device", columns[1:], cells[1:])
		if err != nil {
			return nil, err
		}

		table.Rows = append(table.Rows, DeviceRow{Device: cells[0], Fields: fields})
	}

	return table, nil
}

func uniqueColumns(section, line string, columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return errors.New().WithData(ErrDuplicateKey, lineError{
				Section: section,
				Line:    line,
				Reason:  "column " + c + " repeated",
			})
		}
		seen[c] = true
	}
	return nil
}

// toFields coerces every value to float64. Some locales print a decimal
// comma, which is accepted.
func toFields(section string, names, values []string) ([]Field, error) {
	fields := make([]Field, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(strings.Replace(values[i], ",", ".", 1), 64)
		if err != nil {
			return nil, errors.New().WithData(ErrNumericCoercion, lineError{
				Section: section,
				Line:    values[i],
				Reason:  "column " + name + ": " + err.Error(),
			})
		}
		fields[i] = Field{Name: name, Value: v}
	}

	return fields, nil
}
