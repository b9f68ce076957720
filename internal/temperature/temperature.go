// Package temperature provides a unit-aware temperature value. All
// comparisons are made on the Celsius value so readings reported in
// different units can be ordered against each other.
package temperature

import (
	"fmt"
	"math"
	"strconv"

	"codeberg.org/mutker/hwstat/internal/errors"
)

// Unit is the scale a temperature value is expressed in.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// DefaultUnit is assumed for thresholds that the tool did not report.
const DefaultUnit = Celsius

// ParseUnit accepts the single-letter symbols printed after the degree sign.
func ParseUnit(symbol string) (Unit, error) {
	switch Unit(symbol) {
	case Celsius, Fahrenheit:
		return Unit(symbol), nil
	}

	return "", errors.New().WithData(errors.ErrInvalidUnit, symbol)
}

// Temperature is an immutable value with its unit.
type Temperature struct {
	Value float64
	Unit  Unit
}

// New builds a Temperature. The unit must be Celsius or Fahrenheit; the
// value itself is not checked.
func New(value float64, unit Unit) (Temperature, error) {
	if _, err := ParseUnit(string(unit)); err != nil {
		return Temperature{}, err
	}

	return Temperature{Value: value, Unit: unit}, nil
}

// MustNew is like New but panics on an unknown unit. Meant for constants.
func MustNew(value float64, unit Unit) Temperature {
	t, err := New(value, unit)
	if err != nil {
		panic(err)
	}

	return t
}

// Parse builds a Temperature from the textual value and unit symbol.
func Parse(value, symbol string) (Temperature, error) {
	unit, err := ParseUnit(symbol)
	if err != nil {
		return Temperature{}, err
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Temperature{}, errors.New().Wrap(errors.ErrNumericCoercion, err)
	}

	return Temperature{Value: v, Unit: unit}, nil
}

// NegInf and PosInf are the defaults for missing low and high/crit thresholds.
func NegInf() Temperature { return MustNew(math.Inf(-1), DefaultUnit) }
func PosInf() Temperature { return MustNew(math.Inf(1), DefaultUnit) }

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32) / 1.8
}

func celsiusToFahrenheit(c float64) float64 {
	return 1.8*c + 32
}

// Valid reports whether t carries a known unit. The zero value is not valid.
func (t Temperature) Valid() bool {
	return t.Unit == Celsius || t.Unit == Fahrenheit
}

// Celsius returns t expressed in Celsius. A value without a known unit
// converts to NaN, which never compares true against anything.
func (t Temperature) Celsius() Temperature {
	switch t.Unit {
	case Celsius:
		return t
	case Fahrenheit:
		return Temperature{Value: fahrenheitToCelsius(t.Value), Unit: Celsius}
	default:
		return Temperature{Value: math.NaN(), Unit: Celsius}
	}
}

// Fahrenheit returns t expressed in Fahrenheit.
func (t Temperature) Fahrenheit() Temperature {
	switch t.Unit {
	case Fahrenheit:
		return t
	case Celsius:
		return Temperature{Value: celsiusToFahrenheit(t.Value), Unit: Fahrenheit}
	default:
		return Temperature{Value: math.NaN(), Unit: Fahrenheit}
	}
}

// Compare returns -1, 0 or +1. Equality is exact after conversion. It
// panics when either side has no known unit, since such values are unordered.
func (t Temperature) Compare(o Temperature) int {
	if !t.Valid() || !o.Valid() {
		panic(errors.New().WithData(errors.ErrInvalidUnit, fmt.Sprintf("%q vs %q", t.Unit, o.Unit)))
	}

	a, b := t.Celsius().Value, o.Celsius().Value
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t Temperature) Equal(o Temperature) bool {
	return t.Celsius().Value == o.Celsius().Value
}

func (t Temperature) Less(o Temperature) bool {
	return t.Celsius().Value < o.Celsius().Value
}

func (t Temperature) LessOrEqual(o Temperature) bool {
	return t.Celsius().Value <= o.Celsius().Value
}

func (t Temperature) Greater(o Temperature) bool {
	return t.Celsius().Value > o.Celsius().Value
}

func (t Temperature) GreaterOrEqual(o Temperature) bool {
	return t.Celsius().Value >= o.Celsius().Value
}

// IsFinite reports whether the value is neither infinite nor NaN.
func (t Temperature) IsFinite() bool {
	return !math.IsInf(t.Value, 0) && !math.IsNaN(t.Value)
}

// String renders the value the way lm-sensors prints it, e.g. "+32.0°C".
func (t Temperature) String() string {
	if math.IsInf(t.Value, 1) {
		return "+inf°" + string(t.Unit)
	}
	if math.IsInf(t.Value, -1) {
		return "-inf°" + string(t.Unit)
	}

	return fmt.Sprintf("%+.1f°%s", t.Value, t.Unit)
}
