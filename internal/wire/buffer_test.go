package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_RoundTrip(t *testing.T) {
	b := &Buffer{}
	b.PutUint32(42)
	b.PutInt32(-7)
	b.PutUint64(1 << 40)
	b.PutInt64(-1 << 40)
	b.PutFloat32(3.5)
	b.PutFloat64(2.718281828)
	b.PutBool(true)
	b.PutBool(false)

	assert.Equal(t, uint32(42), b.GetUint32())
	assert.Equal(t, int32(-7), b.GetInt32())
	assert.Equal(t, uint64(1<<40), b.GetUint64())
	assert.Equal(t, int64(-1<<40), b.GetInt64())
	assert.Equal(t, float32(3.5), b.GetFloat32())
	assert.Equal(t, 2.718281828, b.GetFloat64())
	assert.True(t, b.GetBool())
	assert.False(t, b.GetBool())
	assert.True(t, b.ReadFinished())
}

func TestBuffer_InterleavedKeyValuePairs(t *testing.T) {
	b := &Buffer{}
	pairs := map[uint64]float32{1: 1.5, 2: 2.5, 3: 3.5}
	for k, v := range pairs {
		b.PutUint64(k)
		b.PutFloat32(v)
	}

	got := map[uint64]float32{}
	for !b.ReadFinished() {
		k := b.GetUint64()
		v := b.GetFloat32()
		got[k] = v
	}
	assert.Equal(t, pairs, got)
}

func TestBuffer_ReadPastEndPanics(t *testing.T) {
	b := &Buffer{}
	b.PutUint32(1)
	b.GetUint32()
	assert.Panics(t, func() { b.GetUint32() })
}

func TestNewBuffer_WrapsExistingBytes(t *testing.T) {
	src := &Buffer{}
	src.PutUint64(99)
	decoded := NewBuffer(src.Bytes())
	require.False(t, decoded.ReadFinished())
	assert.Equal(t, uint64(99), decoded.GetUint64())
	assert.True(t, decoded.ReadFinished())
}
