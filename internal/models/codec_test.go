package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCodec(t *testing.T) {
	v := []float32{0, -1.5, 3.25, float32(math.Pi), 3.4028235e38}
	buf := EncodeVector(v)
	assert.Len(t, buf, 4*len(v))

	decoded, err := DecodeVector(buf)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)

	empty, err := DecodeVector(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
