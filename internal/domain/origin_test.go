package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinedKeyOf(t *testing.T) {
	key, err := CombinedKeyOf(Origin{OriginType: "doc", OriginID: "42"})
	assert.NoError(t, err)
	assert.Equal(t, CombinedKey("doc#42"), key)

	t.Run("MissingID", func(t *testing.T) {
		_, err := CombinedKeyOf(Origin{OriginType: "doc"})
		assert.True(t, errors.Is(err, ErrInvalidOrigin))
	})

	t.Run("MissingType", func(t *testing.T) {
		_, err := CombinedKeyOf(Origin{OriginID: "42"})
		assert.True(t, errors.Is(err, ErrInvalidOrigin))
	})
}

func TestSplitCombinedKey(t *testing.T) {
	origin, err := SplitCombinedKey("doc#42")
	assert.NoError(t, err)
	assert.Equal(t, Origin{OriginType: "doc", OriginID: "42"}, origin)

	t.Run("SeparatorInsideID", func(t *testing.T) {
		// Only the first separator splits; the id keeps the rest verbatim.
		origin, err := SplitCombinedKey("doc#42#rev#7")
		assert.NoError(t, err)
		assert.Equal(t, Origin{OriginType: "doc", OriginID: "42#rev#7"}, origin)
	})

	t.Run("NoSeparator", func(t *testing.T) {
		_, err := SplitCombinedKey("doc42")
		assert.True(t, errors.Is(err, ErrMalformedKey))
	})
}

func TestCombinedKeyRoundTrip(t *testing.T) {
	origins := []Origin{
		{OriginType: "doc", OriginID: "42"},
		{OriginType: "user", OriginID: "a#b#c"},
		{OriginType: "pipeline", OriginID: "deploy/prod"},
	}
	for _, origin := range origins {
		key, err := CombinedKeyOf(origin)
		assert.NoError(t, err)
		decoded, err := SplitCombinedKey(key)
		assert.NoError(t, err)
		assert.Equal(t, origin, decoded)
	}
}
