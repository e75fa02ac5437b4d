package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyFile, []byte("  from-file\n"), 0o600))

	emptyFile := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(emptyFile, []byte("\n"), 0o600))

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{
			name: "inline value is trimmed",
			src:  Source{Name: "gemini api key", Value: "  inline "},
			want: "inline",
		},
		{
			name: "file wins over inline value",
			src:  Source{Name: "gemini api key", Value: "inline", File: keyFile},
			want: "from-file",
		},
		{
			name:    "empty file",
			src:     Source{Name: "smtp password", File: emptyFile},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			src:     Source{Name: "smtp password", File: filepath.Join(dir, "missing")},
			wantErr: "reading smtp password from file",
		},
		{
			name:    "nothing configured",
			src:     Source{},
			wantErr: "secret: secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotConfiguredIsSentinel(t *testing.T) {
	_, err := Load(Source{Name: "gemini api key"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestLoadOptional(t *testing.T) {
	got, err := LoadOptional(Source{Name: "smtp password"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = LoadOptional(Source{Name: "smtp password", File: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
