package lr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dreamware/paramserver/internal/table"
)

// defaultFeatureValue is used for every feature in a line, since the
// instance format this package reads carries only feature keys, never
// per-feature values — the reference implementation this was ported from
// read a value here too, but the variable it read into was never
// assigned before use. Every feature present on a line is therefore
// treated as an indicator feature (value 1.0) rather than reproducing
// that bug.
const defaultFeatureValue = 1.0

// Feature is one (key, value) pair referenced by an Instance.
type Feature struct {
	Key   table.Key
	Value float64
}

// Instance is one training example: a target label and the sparse set of
// feature keys present on it.
type Instance struct {
	Target float64
	Feas   []Feature
}

// ParseInstance reads one line of the form "target key1 key2 key3 ...".
// Blank lines and lines with no target are rejected.
func ParseInstance(line string) (Instance, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instance{}, fmt.Errorf("lr: empty line")
	}

	target, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Instance{}, fmt.Errorf("lr: parse target: %w", err)
	}

	feas := make([]Feature, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		key, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return Instance{}, fmt.Errorf("lr: parse feature key %q: %w", tok, err)
		}
		feas = append(feas, Feature{Key: key, Value: defaultFeatureValue})
	}
	return Instance{Target: target, Feas: feas}, nil
}
