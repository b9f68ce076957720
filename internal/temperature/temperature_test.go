package temperature_test

import (
	"encoding/json"
	"math"
	"testing"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/temperature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversion(t *testing.T) {
	tests := []struct {
		name    string
		in      temperature.Temperature
		celsius float64
		fahr    float64
	}{
		{"freezing", temperature.MustNew(0, temperature.Celsius), 0, 32},
		{"boiling", temperature.MustNew(100, temperature.Celsius), 100, 212},
		{"body", temperature.MustNew(98.6, temperature.Fahrenheit), 37, 98.6},
		{"crossover", temperature.MustNew(-40, temperature.Fahrenheit), -40, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.celsius, tt.in.Celsius().Value, 1e-9)
			assert.Equal(t, temperature.Celsius, tt.in.Celsius().Unit)
			assert.InDelta(t, tt.fahr, tt.in.Fahrenheit().Value, 1e-9)
			assert.Equal(t, temperature.Fahrenheit, tt.in.Fahrenheit().Unit)
		})
	}
}

func TestConversionIdentity(t *testing.T) {
	c := temperature.MustNew(84.8, temperature.Celsius)
	assert.Equal(t, c, c.Celsius())

	f := temperature.MustNew(84.8, temperature.Fahrenheit)
	assert.Equal(t, f, f.Fahrenheit())
}

func TestConversionDoesNotMutate(t *testing.T) {
	c := temperature.MustNew(25, temperature.Celsius)
	_ = c.Fahrenheit()
	assert.Equal(t, 25.0, c.Value)
	assert.Equal(t, temperature.Celsius, c.Unit)
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{-273.15, -40, -0.5, 0, 7.8, 32, 84.8, 100, 65261.8, 1e9} {
		got := temperature.MustNew(v, temperature.Celsius).Fahrenheit().Celsius().Value
		assert.InDelta(t, v, got, 1e-9*math.Max(1, math.Abs(v)), "value %v", v)
	}
}

func TestComparisonAcrossUnits(t *testing.T) {
	c := temperature.MustNew(37, temperature.Celsius)
	f := temperature.MustNew(98.6, temperature.Fahrenheit)
	hot := temperature.MustNew(212, temperature.Fahrenheit)

	assert.True(t, hot.Greater(c))
	assert.True(t, hot.GreaterOrEqual(c))
	assert.True(t, c.Less(hot))
	assert.True(t, c.LessOrEqual(hot))
	assert.False(t, c.Greater(hot))
	assert.Equal(t, -1, c.Compare(hot))
	assert.Equal(t, 1, hot.Compare(f))

	// 98.6F converts to 36.99999999999999C, so exact equality does not hold.
	assert.InDelta(t, c.Celsius().Value, f.Celsius().Value, 1e-9)

	assert.True(t, temperature.MustNew(212, temperature.Fahrenheit).Equal(temperature.MustNew(100, temperature.Celsius)))
	assert.Equal(t, 0, temperature.MustNew(32, temperature.Fahrenheit).Compare(temperature.MustNew(0, temperature.Celsius)))
}

func TestComparisonConsistency(t *testing.T) {
	values := []temperature.Temperature{
		temperature.MustNew(-10, temperature.Celsius),
		temperature.MustNew(10, temperature.Fahrenheit),
		temperature.MustNew(50, temperature.Celsius),
		temperature.MustNew(50, temperature.Fahrenheit),
		temperature.NegInf(),
		temperature.PosInf(),
	}

	for _, a := range values {
		for _, b := range values {
			assert.Equal(t, a.Celsius().Value < b.Celsius().Value, a.Less(b), "%v < %v", a, b)
			assert.Equal(t, a.Celsius().Value >= b.Celsius().Value, a.GreaterOrEqual(b), "%v >= %v", a, b)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := temperature.Parse("+84.8", "C")
	require.NoError(t, err)
	assert.Equal(t, temperature.MustNew(84.8, temperature.Celsius), got)

	got, err = temperature.Parse("-273.1", "F")
	require.NoError(t, err)
	assert.Equal(t, temperature.MustNew(-273.1, temperature.Fahrenheit), got)

	_, err = temperature.Parse("12.0", "K")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidUnit))

	_, err = temperature.Parse("abc", "C")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrNumericCoercion))
}

func TestNewRejectsUnknownUnit(t *testing.T) {
	for _, unit := range []temperature.Unit{"", "K", "c"} {
		_, err := temperature.New(100, unit)
		require.Error(t, err, "unit %q", unit)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidUnit))
	}

	got, err := temperature.New(100, temperature.Fahrenheit)
	require.NoError(t, err)
	assert.Equal(t, temperature.Fahrenheit, got.Unit)

	assert.Panics(t, func() { temperature.MustNew(1, "K") })
}

func TestZeroValueIsUnordered(t *testing.T) {
	var zero temperature.Temperature
	freezing := temperature.MustNew(0, temperature.Celsius)
	kelvin := temperature.Temperature{Value: 100, Unit: "K"}

	assert.False(t, zero.Valid())
	assert.False(t, kelvin.Valid())
	assert.True(t, math.IsNaN(zero.Celsius().Value))
	assert.True(t, math.IsNaN(kelvin.Celsius().Value))
	assert.True(t, math.IsNaN(kelvin.Fahrenheit().Value))

	assert.False(t, zero.Less(freezing))
	assert.False(t, zero.GreaterOrEqual(freezing))
	assert.False(t, kelvin.Equal(kelvin))
	assert.Panics(t, func() { zero.Compare(freezing) })
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "32.0", temperature.FormatValue(32))
	assert.Equal(t, "84.8", temperature.FormatValue(84.8))
	assert.Equal(t, "-273.1", temperature.FormatValue(-273.1))
	assert.Equal(t, "inf", temperature.FormatValue(math.Inf(1)))
	assert.Equal(t, "-inf", temperature.FormatValue(math.Inf(-1)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "+32.0°C", temperature.MustNew(32, temperature.Celsius).String())
	assert.Equal(t, "-5.5°F", temperature.MustNew(-5.5, temperature.Fahrenheit).String())
	assert.Equal(t, "+inf°C", temperature.PosInf().String())
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(temperature.MustNew(32, temperature.Celsius))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":32,"unit":"C"}`, string(b))

	b, err = json.Marshal(temperature.NegInf())
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"-inf","unit":"C"}`, string(b))
}
