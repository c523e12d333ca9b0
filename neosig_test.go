package neosig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/quantity"
	"github.com/arloliu/neosig/series"
)

func TestMarshalUnmarshalAnalogSignal(t *testing.T) {
	sig, err := series.NewAnalogSignal(
		quantity.New([]float64{0.5, 1.25, 2.0, 1.25, 0.5}, quantity.Millivolt),
		series.WithSamplingRate(quantity.NewScalar(10, quantity.Kilohertz)),
		series.WithSignalName("lfp"),
	)
	require.NoError(t, err)

	data, err := Marshal(sig)
	require.NoError(t, err)

	container, err := Unmarshal(data)
	require.NoError(t, err)

	got, ok := container.(*series.AnalogSignal)
	require.True(t, ok)
	assert.True(t, series.Equal(sig, got))
	assert.Equal(t, "lfp", got.Meta().Name)
}

func TestMarshalUnmarshalSpikeTrain(t *testing.T) {
	train, err := series.NewSpikeTrain(
		quantity.New([]float64{0.2, 0.9, 3.3}, quantity.Second),
		quantity.Seconds(5),
	)
	require.NoError(t, err)

	data, err := Marshal(train)
	require.NoError(t, err)

	container, err := Unmarshal(data)
	require.NoError(t, err)

	got, ok := container.(*series.SpikeTrain)
	require.True(t, ok)
	assert.Equal(t, train.Times().Values(), got.Times().Values())
	assert.True(t, train.TStop().Equal(got.TStop()))
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not a neosig blob"))
	require.Error(t, err)
}
