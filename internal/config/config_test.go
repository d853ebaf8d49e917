package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapegen/internal/symbol"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfig_Load(t *testing.T) {
	path := writeConfig(t, `version: 1
model: model.json
package: things
output: gen
target: non-validating
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "model.json"), cfg.ModelPath())
	assert.Equal(t, filepath.Join(dir, "gen"), cfg.OutputDir())
	assert.Equal(t, symbol.Mode{Target: symbol.NonValidating, PublicConstrainedTypes: true}, cfg.Mode())
}

func TestConfig_LoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "version: 1\nmodle: model.json\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_LoadAndSave(t *testing.T) {
	off := false
	cfg := Config{Version: 1, Model: "/abs/model.yaml", Package: "api", PublicConstrainedTypes: &off}
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/abs/model.yaml", loaded.ModelPath())
	assert.Equal(t, filepath.Dir(path), loaded.OutputDir())
	assert.Equal(t, symbol.Mode{Target: symbol.Validating}, loaded.Mode())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid config",
			cfg:  Config{Version: 1, Model: "m.json", Package: "api"},
		},
		{
			name:    "unsupported version",
			cfg:     Config{Version: 99, Model: "m.json", Package: "api"},
			wantErr: "unsupported config version",
		},
		{
			name:    "missing model",
			cfg:     Config{Version: 1, Package: "api"},
			wantErr: "model is required",
		},
		{
			name:    "bad package",
			cfg:     Config{Version: 1, Model: "m.json", Package: "my-api"},
			wantErr: "not a valid identifier",
		},
		{
			name:    "unknown target",
			cfg:     Config{Version: 1, Model: "m.json", Package: "api", Target: "both"},
			wantErr: "unknown target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
