package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()

	t.Run("overrides and keeps defaults", func(t *testing.T) {
		path := writeFile(t, dir, "schema.yaml", `
location_column: nama_kabkota
extra_exclude_columns:
  - kode_wilayah
`)
		s, err := LoadSchema(path)
		require.NoError(t, err)
		assert.Equal(t, "Periode", s.PeriodColumn)
		assert.Equal(t, "nama_kabkota", s.LocationColumn)
		assert.Equal(t, []string{"kode_wilayah"}, s.ExtraExcludeColumns)
		assert.True(t, s.excluded("kode_wilayah"))
		assert.True(t, s.excluded("SPHP_covered"))
	})

	t.Run("rejects identical coordinate columns", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "latitude_column: lat\nlongitude_column: lat\n")
		_, err := LoadSchema(path)
		assert.Error(t, err)
	})

	t.Run("rejects blank period column", func(t *testing.T) {
		path := writeFile(t, dir, "blank.yaml", "period_column: \"\"\n")
		_, err := LoadSchema(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(dir, "none.yaml"))
		assert.Error(t, err)
	})
}

func TestDefaultSchemaValid(t *testing.T) {
	assert.NoError(t, DefaultSchema().Validate())
}
