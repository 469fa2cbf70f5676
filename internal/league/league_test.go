package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowList(t *testing.T) {
	for _, l := range All() {
		assert.True(t, IsValid(l.Key), l.Key)
		key, err := APIKey(l.Key)
		require.NoError(t, err)
		assert.Equal(t, l.APIKey, key)
	}

	assert.False(t, IsValid("mls"))
	_, err := APIKey("mls")
	assert.ErrorIs(t, err, ErrUnknownLeague)
	assert.Equal(t, "mls", DisplayName("mls"))
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Key = "mutated"
	assert.Equal(t, "epl", All()[0].Key)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("KELLY")
	require.NoError(t, err)
	assert.Equal(t, AlgoKelly, a)
	assert.Equal(t, "KELLY", a.Title())

	a, err = ParseAlgorithm("demo")
	require.NoError(t, err)
	assert.Equal(t, AlgoDemo, a)

	_, err = ParseAlgorithm("martingale")
	assert.Error(t, err)
}
