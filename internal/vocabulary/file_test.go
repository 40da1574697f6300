package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"visual-mapper/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overrideYAML = `
version: clinic-1
components:
  - name: ui.doctorsList
    terms: [врач, доктор, терапевт]
exact_rules:
  - key: терапевт
    component: ui.doctorsList
generic_terms: [сайт]
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_MergesOverBuiltin(t *testing.T) {
	snap, err := LoadFile(writeFile(t, overrideYAML))
	require.NoError(t, err)

	assert.Equal(t, "clinic-1", snap.Version)
	assert.Equal(t, []string{"врач", "доктор", "терапевт"}, snap.TermsFor(catalog.DoctorsList))
	assert.Equal(t, []ExactRule{{Key: "терапевт", Component: catalog.DoctorsList}}, snap.ExactRules)
	assert.Equal(t, []string{"сайт"}, snap.GenericTerms)
	assert.NotEmpty(t, snap.TermsFor(catalog.Button), "untouched builtin components survive")
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "components: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("invalid rule", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "exact_rules:\n  - key: ''\n    component: ui.text\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid vocabulary")
	})
}

func TestEncode_ParsesBack(t *testing.T) {
	data, err := Encode(Builtin())
	require.NoError(t, err)

	snap, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Builtin(), snap)
}
