package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iostatOutput = "Linux 6.1.0-18-amd64 (build01) \t01/15/2024 \t_x86_64_\t(8 CPU)\n" +
	"\n" +
	"avg-cpu:  %user   %nice %system %iowait  %steal   %idle\n" +
	"           2.31    0.01    0.87    0.05    0.00   96.76\n" +
	"\n" +
	"Device             tps    kB_read/s    kB_wrtn/s\n" +
	"nvme0n1          12.45       101.32       230.11\n" +
	"sda               0.02         0.51         0.00\n" +
	"\n"

func TestSplitIOStat(t *testing.T) {
	got := SplitIOStat(iostatOutput)

	assert.Equal(t, "Linux 6.1.0-18-amd64 (build01) \t01/15/2024 \t_x86_64_\t(8 CPU)", got.Header)
	require.Len(t, got.CPU, 2)
	assert.Equal(t, "avg-cpu:  %user   %nice %system %iowait  %steal   %idle", got.CPU[0])
	require.Len(t, got.Devices, 3)
	assert.Equal(t, "Device             tps    kB_read/s    kB_wrtn/s", got.Devices[0])
	assert.Equal(t, "sda               0.02         0.51         0.00", got.Devices[2])
}

func TestSplitIOStatStopsTableAtBlankLine(t *testing.T) {
	text := "banner\nDevice tps\nsda 1.0\n\nnot a row\n"
	got := SplitIOStat(text)
	assert.Equal(t, []string{"Device tps", "sda 1.0"}, got.Devices)
}

func TestSplitIOStatLastReportWins(t *testing.T) {
	text := "banner\n\navg-cpu: %user\n 1.0\n\nDevice tps\nsda 1.0\n\navg-cpu: %user\n 2.0\n\nDevice tps\nsda 2.0\n"
	got := SplitIOStat(text)
	assert.Equal(t, []string{"avg-cpu: %user", " 2.0"}, got.CPU)
	assert.Equal(t, []string{"Device tps", "sda 2.0"}, got.Devices)
}

func TestSplitIOStatMissingSections(t *testing.T) {
	got := SplitIOStat("just a banner")
	assert.Equal(t, "just a banner", got.Header)
	assert.Nil(t, got.CPU)
	assert.Nil(t, got.Devices)

	assert.Equal(t, IOStat{}, SplitIOStat(""))
}

func TestSplitIOStatDanglingCPUHeader(t *testing.T) {
	got := SplitIOStat("banner\navg-cpu:  %user")
	assert.Equal(t, []string{"avg-cpu:  %user"}, got.CPU)
}

const sensorsOutput = `coretemp-isa-0000
Adapter: ISA adapter
Core 0:        +22.0°C  (high = +80.0°C, crit = +100.0°C)

nvme-pci-0300
Adapter: PCI adapter
Composite:    +36.9°C  (low  = -273.1°C, high = +81.8°C)
                       (crit = +84.8°C)
   
`

func TestSplitSensors(t *testing.T) {
	blocks := SplitSensors(sensorsOutput)
	require.Len(t, blocks, 2)

	assert.Equal(t, 1, blocks[0].Line)
	assert.Equal(t, []string{
		"coretemp-isa-0000",
		"Adapter: ISA adapter",
		"Core 0:        +22.0°C  (high = +80.0°C, crit = +100.0°C)",
	}, blocks[0].Lines)

	assert.Equal(t, 5, blocks[1].Line)
	require.Len(t, blocks[1].Lines, 4)
	assert.Equal(t, "                       (crit = +84.8°C)", blocks[1].Lines[3])
}

func TestSplitSensorsCollapsesBlankRuns(t *testing.T) {
	blocks := SplitSensors("\n\na\nb\n\n\n\nc\nd\n\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"a", "b"}, blocks[0].Lines)
	assert.Equal(t, []string{"c", "d"}, blocks[1].Lines)
	assert.Equal(t, 8, blocks[1].Line)

	assert.Empty(t, SplitSensors(""))
}
