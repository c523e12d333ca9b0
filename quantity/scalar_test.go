package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/errs"
)

func TestScalarDefined(t *testing.T) {
	var zero Scalar
	assert.False(t, zero.Defined())
	assert.True(t, Seconds(0).Defined(), "a zero magnitude with a unit is defined")
	assert.True(t, NewScalar(5, Millivolt).Defined())
}

func TestScalarRescale(t *testing.T) {
	s := NewScalar(1500, Millisecond)

	got, err := s.Rescale(Second)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.Value())
	assert.Equal(t, Second, got.Unit())

	_, err = s.Rescale(Volt)
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
}

func TestScalarAddSub(t *testing.T) {
	sum, err := Seconds(1).Add(NewScalar(500, Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1.5, sum.Value())
	assert.Equal(t, Second, sum.Unit())

	diff, err := NewScalar(500, Millisecond).Sub(Seconds(0.1))
	require.NoError(t, err)
	assert.Equal(t, 400.0, diff.Value())
	assert.Equal(t, Millisecond, diff.Unit())

	_, err = Seconds(1).Add(NewScalar(1, Volt))
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
}

func TestScalarReciprocal(t *testing.T) {
	period := NewScalar(250, Hertz).Reciprocal()
	assert.Equal(t, 0.004, period.Value())
	assert.True(t, period.Unit().Equal(Second))

	rate := NewScalar(4, Millisecond).Reciprocal()
	assert.Equal(t, 0.25, rate.Value())
	assert.True(t, rate.Unit().Equal(Kilohertz))
}

func TestScalarCompare(t *testing.T) {
	a := NewScalar(999, Millisecond)
	b := Seconds(1)

	cmp, err := a.Compare(b)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = b.Compare(a)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = Seconds(1).Compare(NewScalar(1000, Millisecond))
	require.NoError(t, err)
	assert.Zero(t, cmp)

	_, err = a.Compare(NewScalar(1, Volt))
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
}

func TestScalarEqual(t *testing.T) {
	assert.True(t, Seconds(1).Equal(NewScalar(1000, Millisecond)))
	assert.False(t, Seconds(1).Equal(Seconds(2)))
	assert.False(t, Seconds(1).Equal(NewScalar(1, Volt)), "incompatible scalars are unequal, not an error")

	// Tolerance absorbs conversion round-off.
	converted, err := Seconds(0.1).Rescale(Microsecond)
	require.NoError(t, err)
	back, err := converted.Rescale(Second)
	require.NoError(t, err)
	assert.True(t, Seconds(0.1).Equal(back))
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "2.5 ms", NewScalar(2.5, Millisecond).String())
	assert.Equal(t, "3", NewScalar(3, Dimensionless).String())
}
