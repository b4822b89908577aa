package lr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstance_TargetAndFeatures(t *testing.T) {
	ins, err := ParseInstance("1 10 20 30")
	require.NoError(t, err)
	assert.Equal(t, 1.0, ins.Target)
	require.Len(t, ins.Feas, 3)
	for _, f := range ins.Feas {
		assert.Equal(t, defaultFeatureValue, f.Value, "every feature defaults to an indicator value")
	}
	assert.Equal(t, uint64(10), ins.Feas[0].Key)
}

func TestParseInstance_NegativeTarget(t *testing.T) {
	ins, err := ParseInstance("-1 5")
	require.NoError(t, err)
	assert.Equal(t, -1.0, ins.Target)
}

func TestParseInstance_NoFeatures(t *testing.T) {
	ins, err := ParseInstance("0")
	require.NoError(t, err)
	assert.Empty(t, ins.Feas)
}

func TestParseInstance_RejectsEmptyLine(t *testing.T) {
	_, err := ParseInstance("")
	assert.Error(t, err)
}

func TestParseInstance_RejectsMalformedKey(t *testing.T) {
	_, err := ParseInstance("1 abc")
	assert.Error(t, err)
}
