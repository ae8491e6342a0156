package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kustomize/kyaml/yaml"
)

func TestNew_LoadsDefaults(t *testing.T) {
	cfg := New()

	require.NotNil(t, cfg)
	assert.Equal(t, "./apicase", cfg.Path)
	assert.Equal(t, uint64(30), cfg.Execute.APITimeout)
	assert.Equal(t, 1, cfg.Execute.ParallelBatches)
	assert.Equal(t, StorageYaml, cfg.Storage.Kind)
	assert.Equal(t, 128, cfg.FileStore.CacheSize)
	assert.Equal(t, uint32(8086), cfg.Serve.Port)
}

func TestStorageKindSet(t *testing.T) {
	var k StorageKind
	require.NoError(t, k.Set("MONGO"))
	assert.Equal(t, StorageMongo, k)

	err := k.Set("sqlite")
	require.Error(t, err)
	assert.Equal(t, `must be one of "yaml" or "mongo"`, err.Error())
	assert.Equal(t, "storage", k.Type())
}

func TestExecuteTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, Execute{}.Timeout())
	assert.Equal(t, 5*time.Second, Execute{APITimeout: 5}.Timeout())
}

func TestMergeStrings_InvalidSrcYAML_ReturnsError(t *testing.T) {
	src := `
    invalid_yaml: [unclosed_list
    `
	dest := `
    debug: true
    `
	result, err := mergeStrings(src, dest, false, yaml.MergeOptions{})
	assert.Error(t, err)
	assert.Empty(t, result)
}

func TestMerge_KeepsBothSides(t *testing.T) {
	merged, err := Merge("path: a\n", "sentryDSN: b\n")
	require.NoError(t, err)
	assert.Contains(t, merged, "path: a")
	assert.Contains(t, merged, "sentryDSN: b")
}
