package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/quantity"
)

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{1, 5, 9}, quantity.Second),
		WithLabels([]string{"a", "b", "c"}))
	require.NoError(t, err)

	assert.Equal(t, 3, ev.Len())
	assert.Equal(t, []string{"a", "b", "c"}, ev.Labels())
	assert.Same(t, ev.Data(), ev.Times(), "times alias the container's own data")
}

func TestNewEventValidation(t *testing.T) {
	t.Run("non-time units rejected", func(t *testing.T) {
		_, err := NewEvent(quantity.New([]float64{1}, quantity.Millivolt))
		require.ErrorIs(t, err, errs.ErrNonTimeUnits)
	})

	t.Run("frequency is not time", func(t *testing.T) {
		_, err := NewEvent(quantity.New([]float64{1}, quantity.Hertz))
		require.ErrorIs(t, err, errs.ErrNonTimeUnits)
	})

	t.Run("label count must match", func(t *testing.T) {
		_, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second),
			WithLabels([]string{"only one"}))
		require.ErrorIs(t, err, errs.ErrLengthMismatch)
	})

	t.Run("labels default to empty strings", func(t *testing.T) {
		ev, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second))
		require.NoError(t, err)
		assert.Equal(t, []string{"", ""}, ev.Labels())
	})
}

func TestEventTimeBounds(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{7, 2, 5}, quantity.Second))
	require.NoError(t, err)

	assert.True(t, ev.TStart().Equal(quantity.Seconds(2)))
	assert.True(t, ev.TStop().Equal(quantity.Seconds(2)), "t_stop reports the minimum as well")
	assert.True(t, ev.Duration().Equal(quantity.Seconds(0)))

	empty, err := NewEvent(quantity.New(nil, quantity.Second))
	require.NoError(t, err)
	assert.False(t, empty.TStart().Defined())
}

func TestEventSliceKeepsLabelsAligned(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{1, 2, 3, 4}, quantity.Second),
		WithLabels([]string{"a", "b", "c", "d"}))
	require.NoError(t, err)

	sub, err := Slice(ev, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, sub.Times().Values())
	assert.Equal(t, []string{"b", "c"}, sub.Labels())
}

func TestEventArgsRoundTrip(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{0.5, 1.5}, quantity.Second),
		WithLabels([]string{"on", "off"}),
		WithEventName("stimulus"),
		WithEventAnnotations(map[string]any{"block": 2}),
	)
	require.NoError(t, err)

	got, err := ReconstructEvent(ev.Args())
	require.NoError(t, err)

	assert.True(t, Equal(ev, got))
	assert.Equal(t, ev.Labels(), got.Labels())
	assert.Equal(t, ev.Meta().Annotations, got.Meta().Annotations)
}

func TestWithEventUnits(t *testing.T) {
	ev, err := NewEvent(quantity.New([]float64{1, 2}, quantity.Second),
		WithEventUnits(quantity.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 2000}, ev.Times().Values())
}
