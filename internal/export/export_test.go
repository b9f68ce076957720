package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/export"
	"codeberg.org/mutker/hwstat/internal/iostat"
	"codeberg.org/mutker/hwstat/internal/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseReport(t *testing.T, text string) *sensors.Report {
	t.Helper()
	report, err := sensors.Parse(context.Background(), text)
	require.NoError(t, err)
	return report
}

func TestWriteCSV(t *testing.T) {
	report := parseReport(t, "coretemp-isa-0000\nAdapter: ISA adapter\nCore 0:  +32.0°C  (high = +80.0°C, crit = +100.0°C)\n")

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, report))

	assert.Equal(t,
		"chip,adapter,sensor,current,high,crit,unit\n"+
			"coretemp-isa-0000,ISA adapter,Core 0,32.0,80.0,100.0,C\n",
		buf.String())
}

func TestWriteCSVNormalizesToCelsius(t *testing.T) {
	report := parseReport(t, "chip-0\nAdapter: Virtual device\nCPU:  +212.0°F  (high = +176.0°F)\ntemp1:  +35.0°C\n")

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, report))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "chip-0,Virtual device,CPU,100.0,80.0,inf,C", lines[1])
	assert.Equal(t, "chip-0,Virtual device,temp1,35.0,inf,inf,C", lines[2])
}

func TestWriteCSVOrder(t *testing.T) {
	report := parseReport(t, "b-chip\nAdapter: X\nz:  +1.0°C\na:  +2.0°C\n\na-chip\nAdapter: Y\nm:  +3.0°C\n")

	rows := export.Rows(report)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{rows[0].Sensor, rows[1].Sensor, rows[2].Sensor})
	assert.Equal(t, "b-chip", rows[0].Chip)
	assert.Equal(t, "a-chip", rows[2].Chip)
}

func TestWriteCSVRejectsFieldsNeedingQuotes(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"quote in adapter and sensor", "chip-0\nAdapter: ISA \"bridge\"\nCPU \"die\":  +30.0°C\n"},
		{"comma in sensor", "chip-0\nAdapter: ISA adapter\nCore 0,1:  +30.0°C\n"},
		{"comma in adapter", "chip-0\nAdapter: ISA, PCI\ntemp1:  +30.0°C\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := parseReport(t, tt.text)

			var buf bytes.Buffer
			err := export.WriteCSV(&buf, report)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, export.ErrUnquotableField))
			assert.Empty(t, buf.String())
		})
	}
}

func TestWriteCSVEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, &sensors.Report{}))
	assert.Equal(t, "chip,adapter,sensor,current,high,crit,unit\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	report := parseReport(t, "chip-0\nAdapter: ISA adapter\ntemp1:  +30.0°C  (crit = +90.0°C)\n")

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatJSON, export.Document{Sensors: report}))

	var decoded struct {
		Sensors struct {
			Groups []struct {
				Name    string `json:"name"`
				Adapter string `json:"adapter"`
				Sensors []struct {
					Name    string         `json:"name"`
					Current map[string]any `json:"current"`
					Low     map[string]any `json:"low"`
					Crit    map[string]any `json:"crit"`
				} `json:"sensors"`
			} `json:"groups"`
		} `json:"sensors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Sensors.Groups, 1)

	s := decoded.Sensors.Groups[0].Sensors[0]
	assert.Equal(t, "temp1", s.Name)
	assert.Equal(t, 30.0, s.Current["value"])
	assert.Equal(t, "-inf", s.Low["value"])
	assert.Equal(t, 90.0, s.Crit["value"])
}

func TestWriteYAML(t *testing.T) {
	snap, err := iostat.Parse("banner\navg-cpu: %user %idle\n 1.5 98.5\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatYAML, export.Document{IOStat: snap}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "iostat")
	assert.Contains(t, buf.String(), "name: idle")
}

func TestWriteRejectsCSVForIOStat(t *testing.T) {
	err := export.Write(&bytes.Buffer{}, export.FormatCSV, export.Document{IOStat: &iostat.Snapshot{}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFormat))

	err = export.Write(&bytes.Buffer{}, export.Format("xml"), export.Document{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFormat))
}
