package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BuiltinDefaults(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 18, reg.Len())
	assert.Equal(t,
		"https://www.unodc.org/unodc/en/data-and-analysis/glotip.html",
		reg.Lookup("GLOTIP2024_Chapter_1.pdf"),
	)
}

func TestLookup_UnknownFilename(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, UnknownSource, reg.Lookup("never-indexed.pdf"))
	assert.Equal(t, UnknownSource, reg.Lookup(""))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.toml")
	content := `[documents]
"guide.pdf" = "https://example.org/guide"
"report.pdf" = "https://example.org/report"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "https://example.org/guide", reg.Lookup("guide.pdf"))
	assert.Equal(t, UnknownSource, reg.Lookup("other.pdf"))
}

func TestLoad_FileWithoutEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.toml")
	require.NoError(t, os.WriteFile(path, []byte("# empty\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
