// Package export renders parsed reports for consumers: a normalized CSV
// projection of sensor readings and structured JSON/YAML documents.
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/sensors"
	"codeberg.org/mutker/hwstat/internal/temperature"
)

// CSVHeader is the fixed column set of the sensor projection.
var CSVHeader = []string{"chip", "adapter", "sensor", "current", "high", "crit", "unit"}

// Row is one flattened sensor with every temperature in Celsius.
type Row struct {
	Chip    string
	Adapter string
	Sensor  string
	Current float64
	Low     float64
	High    float64
	Crit    float64
}

// Rows flattens a report in group order, then sensor order.
func Rows(report *sensors.Report) []Row {
	rows := make([]Row, 0, report.Len())
	for _, g := range report.Groups {
		for _, s := range g.Sensors {
			rows = append(rows, Row{
				Chip:    g.Name,
				Adapter: g.Adapter,
				Sensor:  s.Name,
				Current: s.Current.Celsius().Value,
				Low:     s.Low.Celsius().Value,
				High:    s.High.Celsius().Value,
				Crit:    s.Crit.Celsius().Value,
			})
		}
	}
	return rows
}

// fieldError names a value that cannot be written without quoting.
type fieldError struct {
	Column string
	Value  string
}

// plainField reports whether csv.Writer would emit v unquoted.
func plainField(v string) bool {
	if v == `\.` || strings.ContainsAny(v, ",\"\r\n") {
		return false
	}
	return !strings.HasPrefix(v, " ") && !strings.HasPrefix(v, "\t")
}

// checkRows rejects names the unquoted projection cannot carry.
func checkRows(rows []Row) error {
	for _, r := range rows {
		for i, v := range []string{r.Chip, r.Adapter, r.Sensor} {
			if !plainField(v) {
				return errors.New().WithData(ErrUnquotableField, fieldError{
					Column: CSVHeader[i],
					Value:  v,
				})
			}
		}
	}
	return nil
}

// WriteCSV writes the header and one line per sensor. The unit column is
// always Celsius since every value is converted before writing. Fields are
// never quoted: a name containing a comma, quote or line break is rejected
// before anything is written.
func WriteCSV(w io.Writer, report *sensors.Report) error {
	errFactory := errors.New()

	rows := Rows(report)
	if err := checkRows(rows); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errFactory.Wrap(ErrWriteOutput, err)
	}

	unit := string(temperature.Celsius)
	for _, r := range rows {
		record := []string{
			r.Chip,
			r.Adapter,
			r.Sensor,
			temperature.FormatValue(r.Current),
			temperature.FormatValue(r.High),
			temperature.FormatValue(r.Crit),
			unit,
		}
		if err := cw.Write(record); err != nil {
			return errFactory.Wrap(ErrWriteOutput, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errFactory.Wrap(ErrWriteOutput, err)
	}

	return nil
}
