package font

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	return path
}

func TestResolve(t *testing.T) {
	rows := []domain.FontRow{
		{Language: "default", File: "fonts/default.ttf ", Font: "Roboto"},
		{Language: "Thai", File: "fonts/thai.ttf", Font: "Sarabun"},
	}

	cases := []struct {
		name     string
		language string
		wantFile string
	}{
		{name: "exact match", language: "Thai", wantFile: "fonts/thai.ttf"},
		{name: "auto-translation marker stripped", language: "Thai (Auto-translation)", wantFile: "fonts/thai.ttf"},
		{name: "fallback to default", language: "English", wantFile: "fonts/default.ttf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row, err := Resolve(rows, tc.language)
			require.NoError(t, err)
			assert.Equal(t, tc.wantFile, row.File)
		})
	}
}

func TestResolve_NoDefault(t *testing.T) {
	_, err := Resolve([]domain.FontRow{{Language: "Thai", File: "thai.ttf"}}, "English")
	require.ErrorIs(t, err, domain.ErrNoDefaultFont)
}

func TestResolveAndRegister_FallbackRegistersDefaultFile(t *testing.T) {
	path := writeFont(t)
	rows := []domain.FontRow{{Language: "default", File: path, Font: "Go"}}
	reg := NewRegistry()

	f, err := ResolveAndRegister(reg, rows, "Klingon")
	require.NoError(t, err)
	assert.Equal(t, path, f.File)
	assert.Equal(t, "Go", f.Name)
	assert.Equal(t, "Go", f.Family)

	current, data, ok := reg.Current()
	require.True(t, ok)
	assert.Equal(t, f, current)
	assert.Equal(t, goregular.TTF, data)
}

func TestRegistry_LaterRegistrationReplaces(t *testing.T) {
	path := writeFont(t)
	reg := NewRegistry()

	_, err := reg.Register(domain.FontRow{Language: "English", File: path, Font: "First"})
	require.NoError(t, err)
	_, err = reg.Register(domain.FontRow{Language: "German", File: path})
	require.NoError(t, err)

	current, _, ok := reg.Current()
	require.True(t, ok)
	assert.Equal(t, "German", current.Language)
	assert.Equal(t, "Go", current.Name, "name falls back to the family name")
}

func TestRegistry_MissingFile(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(domain.FontRow{Language: "default", File: filepath.Join(t.TempDir(), "missing.ttf")})
	require.Error(t, err)

	_, _, ok := reg.Current()
	assert.False(t, ok)
}

func TestRegistry_InvalidFontData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	_, err := NewRegistry().Register(domain.FontRow{File: path})
	require.Error(t, err)
}
