package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FallsBackToDefaultsWhenFileMissing(t *testing.T) {
	c, err := Load("nonexistent", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults().Server.ShardNum, c.Server.ShardNum)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  shard_num: 32\n  initial_learning_rate: 0.05\nworker:\n  minibatch: 500\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.yaml"), yaml, 0o644))

	c, err := Load("run", dir)
	require.NoError(t, err)
	assert.Equal(t, 32, c.Server.ShardNum)
	assert.Equal(t, 0.05, c.Server.InitialLearningRate)
	assert.Equal(t, 500, c.Worker.Minibatch)
	assert.Equal(t, Defaults().Transport.NThreads, c.Transport.NThreads, "fields absent from the file keep their default")
}

func TestDefaults_AreInternallyConsistent(t *testing.T) {
	c := Defaults()
	assert.Greater(t, c.Server.ShardNum, 0)
	assert.Greater(t, c.Worker.Minibatch, 0)
	assert.Greater(t, c.Worker.NThreads, 0)
	assert.Greater(t, c.Transport.NThreads, 0)
	assert.NotEmpty(t, c.Cluster.RegistryAddr)
}
