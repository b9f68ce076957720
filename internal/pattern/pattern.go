// Package pattern holds the line recognizers for iostat and lm-sensors
// text output. Each matcher returns a typed capture struct in which every
// optional field is a pointer, so "not reported" and "reported" never get
// confused. Converting captures into model values is left to the callers.
package pattern

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern is a named line recognizer.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

func newPattern(name, expr string) *Pattern {
	return &Pattern{Name: name, re: regexp.MustCompile(expr)}
}

// MatchString reports whether line is recognized.
func (p *Pattern) MatchString(line string) bool {
	return p.re.MatchString(line)
}

// submatch returns the named groups of the first match. Groups that did
// not participate are left out of the map.
func (p *Pattern) submatch(line string) (map[string]string, bool) {
	idx := p.re.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil, false
	}

	groups := make(map[string]string)
	for i, name := range p.re.SubexpNames() {
		if name == "" || idx[2*i] < 0 {
			continue
		}
		groups[name] = line[idx[2*i]:idx[2*i+1]]
	}

	return groups, true
}

const (
	number = `[+-]?\d+(?:\.\d+)?`
	unit   = `[CF]`
)

func clause(label string) string {
	return `(?:` + label + `\s*=\s*(?P<` + label + `>` + number + `)°(?P<` + label + `_unit>` + unit + `)\s*,?\s*)?`
}

var (
	// Linux 6.1.0-18-amd64 (host) 	01/15/2024 	_x86_64_	(8 CPU)
	KernelHeader = newPattern("kernel_header",
		`^(?P<kernel>.+?)\s+(?P<date>\S+)\s+(?P<arch>\S+)\s+\((?P<cpus>\d+)\s+CPU\)\s*$`)

	// avg-cpu:  %user   %nice %system %iowait  %steal   %idle
	CPUHeader = newPattern("cpu_header", `^avg-cpu:\s+(?P<columns>\S.*)$`)

	// Device             tps    kB_read/s    kB_wrtn/s
	DeviceHeader = newPattern("device_header", `^Device:?(?:\s+(?P<columns>\S.*))?$`)

	// Core 0:        +22.0°C  (high = +80.0°C, crit = +100.0°C)
	// Sensor 1:      +7.8°C  (low  = -273.1°C, high = +65261.8°C)
	SensorReading = newPattern("sensor_reading",
		`^(?P<name>[^:]+):\s+(?P<current>`+number+`)°(?P<current_unit>`+unit+`)`+
			`(?:\s+\(\s*`+clause("low")+clause("high")+clause("crit")+`\))?\s*$`)

	//                        (crit = +84.8°C)
	CompositeContinuation = newPattern("composite_continuation",
		`^\(\s*crit\s*=\s*(?P<crit>`+number+`)°(?P<crit_unit>`+unit+`)\s*\)$`)

	// Adapter: ISA adapter
	AdapterLine = newPattern("adapter_line", `^(?P<label>[^:]+):\s*(?P<adapter>.*)$`)
)

// Table lists every recognizer in the library.
var Table = []*Pattern{
	KernelHeader,
	CPUHeader,
	DeviceHeader,
	SensorReading,
	CompositeContinuation,
	AdapterLine,
}

// Value is a number and its unit symbol exactly as printed.
type Value struct {
	Number string
	Unit   string
}

// KernelCapture is the iostat banner line.
type KernelCapture struct {
	Kernel       string
	Date         string
	Architecture string
	CPUCount     int
}

// MatchKernel recognizes the first line of iostat output.
func MatchKernel(line string) (KernelCapture, bool) {
	g, ok := KernelHeader.submatch(strings.TrimSpace(line))
	if !ok {
		return KernelCapture{}, false
	}

	cpus, err := strconv.Atoi(g["cpus"])
	if err != nil {
		return KernelCapture{}, false
	}

	return KernelCapture{
		Kernel:       strings.TrimSpace(g["kernel"]),
		Date:         g["date"],
		Architecture: g["arch"],
		CPUCount:     cpus,
	}, true
}

// MatchCPUHeader returns the utilization column names with the leading
// percent sign removed, in printed order.
func MatchCPUHeader(line string) ([]string, bool) {
	g, ok := CPUHeader.submatch(strings.TrimSpace(line))
	if !ok {
		return nil, false
	}

	fields := strings.Fields(g["columns"])
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, strings.TrimPrefix(f, "%"))
	}

	return columns, true
}

// DeviceColumn is the name of the textual column in the device table.
const DeviceColumn = "Device"

// MatchDeviceHeader returns all column names including "Device" itself.
// Older sysstat releases print "Device:"; the colon is dropped.
func MatchDeviceHeader(line string) ([]string, bool) {
	g, ok := DeviceHeader.submatch(strings.TrimSpace(line))
	if !ok {
		return nil, false
	}

	return append([]string{DeviceColumn}, strings.Fields(g["columns"])...), true
}

// ReadingCapture is one sensor line. Thresholds that were not printed are nil.
type ReadingCapture struct {
	Name    string
	Current Value
	Low     *Value
	High    *Value
	Crit    *Value
}

// MatchReading recognizes a temperature sensor line.
func MatchReading(line string) (ReadingCapture, bool) {
	g, ok := SensorReading.submatch(strings.TrimSpace(line))
	if !ok {
		return ReadingCapture{}, false
	}

	return ReadingCapture{
		Name:    strings.TrimSpace(g["name"]),
		Current: Value{Number: g["current"], Unit: g["current_unit"]},
		Low:     optional(g, "low"),
		High:    optional(g, "high"),
		Crit:    optional(g, "crit"),
	}, true
}

// MatchContinuation recognizes the line some NVMe drivers print below the
// Composite reading to carry its critical threshold.
func MatchContinuation(line string) (Value, bool) {
	g, ok := CompositeContinuation.submatch(strings.TrimSpace(line))
	if !ok {
		return Value{}, false
	}

	return *optional(g, "crit"), true
}

// AdapterCapture is the "<label>: <adapter>" line. Label is returned as
// printed so callers can enforce it.
type AdapterCapture struct {
	Label   string
	Adapter string
}

// MatchAdapter splits the second line of a chip block.
func MatchAdapter(line string) (AdapterCapture, bool) {
	g, ok := AdapterLine.submatch(strings.TrimSpace(line))
	if !ok {
		return AdapterCapture{}, false
	}

	return AdapterCapture{
		Label:   g["label"],
		Adapter: strings.TrimSpace(g["adapter"]),
	}, true
}

func optional(g map[string]string, name string) *Value {
	number, ok := g[name]
	if !ok {
		return nil
	}

	return &Value{Number: number, Unit: g[name+"_unit"]}
}
