package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_create_runtime_config.up.sql":   {Data: []byte("")},
		"sql/000001_create_runtime_config.down.sql": {Data: []byte("")},
		"sql/000012_add_rooms.up.sql":               {Data: []byte("")},
		"sql/README.md":                             {Data: []byte("")},
		"sql/nested/000099_ignored.up.sql":          {Data: []byte("")},
	}

	v, err := latestVersion(fsys, "sql")
	require.NoError(t, err)
	assert.Equal(t, 12, v)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	v, err := latestVersion(files, sourceDir)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRunRejectsEmptyURL(t *testing.T) {
	assert.Error(t, Run(""))
}
