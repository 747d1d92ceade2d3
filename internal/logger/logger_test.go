package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ErrorsAreCopiedToFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "errors.log")

	log := setup(EnvLocal, &out, path)
	log.Info("record saved", "id", "r-1")
	log.Error("record save failed", Err(errors.New("boom")))

	assert.Contains(t, out.String(), "record saved")
	assert.Contains(t, out.String(), "record save failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "record saved")
	assert.Contains(t, string(data), "boom")
}

func TestSetup_ProdDropsDebug(t *testing.T) {
	var out bytes.Buffer

	log := setup(EnvProd, &out, "")
	log.Debug("noise")
	log.Info("signal")

	assert.NotContains(t, out.String(), "noise")
	assert.Contains(t, out.String(), "signal")
}

func TestSetup_DevWritesJSON(t *testing.T) {
	var out bytes.Buffer

	setup(EnvDev, &out, "").Info("hello")

	assert.Contains(t, out.String(), `"msg":"hello"`)
}
