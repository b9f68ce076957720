package temperature

import (
	"encoding/json"
	"math"
	"strconv"
)

// FormatValue renders v in its shortest exact form with at least one
// decimal place, e.g. 32 -> "32.0", 84.8 -> "84.8". Infinities render as
// "inf" and "-inf".
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}

	return s + ".0"
}

// wire is the encoded form; JSON has no infinity literal so the value is a
// number when finite and a string otherwise.
type wire struct {
	Value any  `json:"value" yaml:"value"`
	Unit  Unit `json:"unit" yaml:"unit"`
}

func (t Temperature) wire() wire {
	if t.IsFinite() {
		return wire{Value: t.Value, Unit: t.Unit}
	}

	return wire{Value: FormatValue(t.Value), Unit: t.Unit}
}

func (t Temperature) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

func (t Temperature) MarshalYAML() (interface{}, error) {
	return t.wire(), nil
}
