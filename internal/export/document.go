package export

import (
	"encoding/json"
	"io"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/iostat"
	"codeberg.org/mutker/hwstat/internal/sensors"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// Document is what a single run produced. Either part may be nil.
type Document struct {
	IOStat  *iostat.Snapshot `json:"iostat,omitempty" yaml:"iostat,omitempty"`
	Sensors *sensors.Report  `json:"sensors,omitempty" yaml:"sensors,omitempty"`
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.New().Wrap(ErrWriteOutput, err)
	}
	return nil
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.New().Wrap(ErrWriteOutput, err)
	}
	if err := enc.Close(); err != nil {
		return errors.New().Wrap(ErrWriteOutput, err)
	}
	return nil
}

// Write renders doc in one of the stream formats. CSV only covers sensor
// readings, so a document without them cannot be written as CSV.
func Write(w io.Writer, format Format, doc Document) error {
	errFactory := errors.New()

	switch format {
	case FormatCSV:
		if doc.Sensors == nil || doc.IOStat != nil {
			return errFactory.WithMessage(ErrUnsupportedFormat, "csv output is only available for sensors")
		}
		return WriteCSV(w, doc.Sensors)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatYAML:
		return WriteYAML(w, doc)
	default:
		return errFactory.WithData(ErrUnsupportedFormat, string(format))
	}
}
