package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/quantity"
)

func TestCheckConsistency(t *testing.T) {
	a := testSignal(t, []float64{1, 2})
	b := testSignal(t, []float64{3, 4})

	require.NoError(t, CheckConsistency(a, b))

	c := testSignal(t, []float64{5, 6}, WithTStart(quantity.Seconds(1)))
	require.ErrorIs(t, CheckConsistency(a, c), errs.ErrInconsistentAttribute)

	// Different kinds are never compared.
	ev, err := NewEvent(quantity.New([]float64{1}, quantity.Second))
	require.NoError(t, err)
	require.NoError(t, CheckConsistency(a, ev))
}

func TestMergeEvents(t *testing.T) {
	a, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second),
		WithLabels([]string{"a1", "a2"}),
		WithEventAnnotations(map[string]any{"session": "07", "rig": "left"}))
	require.NoError(t, err)

	b, err := NewEvent(quantity.New([]float64{3000, 4000}, quantity.Millisecond),
		WithLabels([]string{"b1", "b2"}),
		WithEventAnnotations(map[string]any{"session": "08", "probe": "A32"}))
	require.NoError(t, err)

	merged, err := Merge(a, b)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4}, merged.Times().Values(), "operand times rescale into a's unit")
	assert.Equal(t, quantity.Second, merged.Times().Unit())
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, merged.Labels())

	// Annotation merge policy: equal kept, disjoint combined, conflicts joined.
	assert.Equal(t, map[string]any{
		"session": "07;08",
		"rig":     "left",
		"probe":   "A32",
	}, merged.Meta().Annotations)
}

func TestMergeEpochsConcatenatesDurations(t *testing.T) {
	a, err := NewEpoch(quantity.New([]float64{0, 10}, quantity.Second),
		WithDurationValues([]float64{1, 2}))
	require.NoError(t, err)
	b, err := NewEpoch(quantity.New([]float64{20}, quantity.Second),
		WithDurationValues([]float64{3}))
	require.NoError(t, err)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 20}, merged.Times().Values())
	assert.Equal(t, []float64{1, 2, 3}, merged.Durations().Values())
}

func TestMergeInconsistentSignalsFails(t *testing.T) {
	a := testSignal(t, []float64{1, 2})
	b, err := NewAnalogSignal(quantity.New([]float64{3, 4}, quantity.Millivolt),
		WithSamplingRate(quantity.NewScalar(2, quantity.Kilohertz)))
	require.NoError(t, err)

	_, err = Merge(a, b)
	require.ErrorIs(t, err, errs.ErrInconsistentAttribute)
}

func TestSortEvent(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{5, 1, 3}, quantity.Second),
		WithLabels([]string{"late", "early", "middle"}))
	require.NoError(t, err)

	require.NoError(t, Sort(ev))
	assert.Equal(t, []float64{1, 3, 5}, ev.Times().Values())
	assert.Equal(t, []string{"early", "middle", "late"}, ev.Labels())
}

func TestRescaleContainer(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second),
		WithLabels([]string{"a", "b"}),
		WithEventName("markers"))
	require.NoError(t, err)

	ms, err := Rescale(ev, quantity.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 2000}, ms.Times().Values())
	assert.Equal(t, []string{"a", "b"}, ms.Labels(), "metadata propagates onto the result")
	assert.Equal(t, "markers", ms.Meta().Name)

	_, err = Rescale(ev, quantity.Volt)
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
}

func TestEqualContainers(t *testing.T) {
	a, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second))
	require.NoError(t, err)
	b, err := NewEvent(quantity.New([]float64{1000, 2000}, quantity.Millisecond))
	require.NoError(t, err)

	assert.True(t, Equal(a, b), "equality is unit-aware")

	c, err := NewEvent(quantity.New([]float64{1, 3}, quantity.Second))
	require.NoError(t, err)
	assert.False(t, Equal(a, c))

	// Same-kind containers with differing consistency attributes are unequal.
	s1 := testSignal(t, []float64{1, 2})
	s2 := testSignal(t, []float64{1, 2}, WithTStart(quantity.Seconds(5)))
	assert.False(t, Equal(s1, s2))
}

func TestArithmeticOperators(t *testing.T) {
	sig := testSignal(t, []float64{1, 2, 3}, WithSignalName("raw"))

	t.Run("scalar operand rescales", func(t *testing.T) {
		shifted, err := Add(sig, quantity.NewScalar(1000, quantity.Microvolt))
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 3, 4}, shifted.Signal().Values())
		assert.Equal(t, "raw", shifted.Meta().Name, "metadata propagates")
	})

	t.Run("bare numbers are dimensionless", func(t *testing.T) {
		doubled, err := Mul(sig, 2.0)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 4, 6}, doubled.Signal().Values())
		assert.Equal(t, quantity.Millivolt, doubled.Signal().Unit())

		halved, err := Div(sig, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 1, 1.5}, halved.Signal().Values())
	})

	t.Run("container operand checks consistency", func(t *testing.T) {
		other := testSignal(t, []float64{10, 20, 30})
		sum, err := Add(sig, other)
		require.NoError(t, err)
		assert.Equal(t, []float64{11, 22, 33}, sum.Signal().Values())

		inconsistent := testSignal(t, []float64{1, 2, 3}, WithTStart(quantity.Seconds(9)))
		_, err = Sub(sig, inconsistent)
		require.ErrorIs(t, err, errs.ErrInconsistentAttribute)
	})

	t.Run("incompatible scalar fails", func(t *testing.T) {
		_, err := Add(sig, quantity.Seconds(1))
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
	})

	t.Run("unsupported operand type", func(t *testing.T) {
		_, err := Add(sig, "nonsense")
		require.Error(t, err)
	})
}

func TestSliceInvalidRange(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{1, 2, 3}, quantity.Second))
	require.NoError(t, err)

	_, err = Slice(ev, 0, 4)
	require.ErrorIs(t, err, errs.ErrInvalidSliceRange)
	_, err = SliceStep(ev, 0, 3, 0)
	require.ErrorIs(t, err, errs.ErrInvalidSliceRange)
}

func TestDuplicateWithNewData(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second),
		WithLabels([]string{"a", "b"}),
		WithEventName("orig"))
	require.NoError(t, err)

	fresh := quantity.New([]float64{9, 8}, quantity.Second)
	dup := DuplicateWithNewData(ev, fresh)

	assert.Equal(t, []float64{9, 8}, dup.Times().Values())
	assert.Equal(t, "orig", dup.Meta().Name)
	assert.Equal(t, []string{"a", "b"}, dup.Labels())

	// The duplicate owns a copy of the data.
	require.NoError(t, fresh.SetAt(0, quantity.Seconds(0)))
	assert.Equal(t, 9.0, dup.Times().Values()[0])
}
