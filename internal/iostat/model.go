// Package iostat builds typed snapshots from the text printed by the
// sysstat iostat utility.
package iostat

import (
	"encoding/json"
	"strings"
)

// KernelInfo is the banner iostat prints first.
type KernelInfo struct {
	Kernel       string `json:"kernel" yaml:"kernel"`
	Date         string `json:"date" yaml:"date"`
	Architecture string `json:"architecture" yaml:"architecture"`
	CPUCount     int    `json:"cpu_count" yaml:"cpu_count"`
}

// Hostname returns the parenthesised host name iostat appends to the
// kernel release, or "" when there is none.
func (k KernelInfo) Hostname() string {
	open := strings.LastIndexByte(k.Kernel, '(')
	if open < 0 || !strings.HasSuffix(k.Kernel, ")") {
		return ""
	}

	return k.Kernel[open+1 : len(k.Kernel)-1]
}

// Field is one named numeric column value.
type Field struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// CPUStats maps utilization category to percentage, in header order.
type CPUStats struct {
	Fields []Field
}

// Get returns the percentage for a category such as "iowait".
func (c CPUStats) Get(name string) (float64, bool) {
	return lookup(c.Fields, name)
}

// Names returns the categories in header order.
func (c CPUStats) Names() []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}

func (c CPUStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields)
}

func (c CPUStats) MarshalYAML() (interface{}, error) {
	return c.Fields, nil
}

// DeviceRow is one line of the device table. Device is the only textual
// column; all others are in Fields in header order.
type DeviceRow struct {
	Device string  `json:"device" yaml:"device"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Get returns the value of a numeric column such as "tps".
func (r DeviceRow) Get(column string) (float64, bool) {
	return lookup(r.Fields, column)
}

// DeviceTable is the per-device section. Its column set comes from its own
// header line and varies with the sysstat version and flags.
type DeviceTable struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Rows    []DeviceRow `json:"rows" yaml:"rows"`
}

// Row returns the row for a device name.
func (t DeviceTable) Row(device string) (DeviceRow, bool) {
	for _, r := range t.Rows {
		if r.Device == device {
			return r, true
		}
	}
	return DeviceRow{}, false
}

// Snapshot is the result of parsing one iostat invocation. Sections the
// tool did not print are nil.
type Snapshot struct {
	Kernel  *KernelInfo  `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	CPU     *CPUStats    `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Devices *DeviceTable `json:"devices,omitempty" yaml:"devices,omitempty"`
}

func lookup(fields []Field, name string) (float64, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}
