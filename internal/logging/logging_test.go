package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitReplacesGlobal(t *testing.T) {
	logger, err := Init("development", "")
	require.NoError(t, err)
	assert.Same(t, logger, zap.L())
}

func TestInitWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lera.log")
	logger, err := Init("production", path)
	require.NoError(t, err)

	zap.L().Info("catalog loaded", zap.Int("products", 12))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"catalog loaded"`)
	assert.Contains(t, string(data), `"products":12`)
}
