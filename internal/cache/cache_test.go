package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGetParam(t *testing.T) {
	c := New[float64]()
	c.SetParam(1, 3.5)

	got, ok := c.Param(1)
	require.True(t, ok)
	assert.Equal(t, 3.5, got)

	_, ok = c.Param(2)
	assert.False(t, ok)
}

func TestCache_DrainGradsAverages(t *testing.T) {
	c := New[float64]()
	c.AddGrad(1, 1.0)
	c.AddGrad(1, 3.0)
	c.AddGrad(2, 5.0)

	drained := c.DrainGrads()
	assert.Equal(t, 2.0, drained[1])
	assert.Equal(t, 5.0, drained[2])
}

func TestCache_DrainGradsOmitsZeroCount(t *testing.T) {
	c := New[float64]()
	c.InitKeys([]Key{1, 2})
	c.AddGrad(1, 4.0)

	drained := c.DrainGrads()
	_, present := drained[1]
	assert.True(t, present)
	_, present = drained[2]
	assert.False(t, present, "a key with no accumulated gradient must not appear in the drained set")
}

func TestCache_DrainGradsResetsAccumulators(t *testing.T) {
	c := New[float64]()
	c.AddGrad(1, 10.0)
	first := c.DrainGrads()
	require.Equal(t, 10.0, first[1])

	second := c.DrainGrads()
	_, present := second[1]
	assert.False(t, present, "draining must reset the accumulator so a stale gradient is not resent")
}

func TestCache_ConcurrentAddGrad(t *testing.T) {
	c := New[float64]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddGrad(1, 1.0)
		}()
	}
	wg.Wait()

	drained := c.DrainGrads()
	assert.Equal(t, 1.0, drained[1])
}
