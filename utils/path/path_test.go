package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv", "conf", "app.yaml"), Resolve("/srv", "conf", "app.yaml"))
	assert.Equal(t, "/etc/app.env", Resolve("/srv", "/etc/app.env"))
	assert.Equal(t, "", Resolve("/srv", ""))
}

func TestEnsureParentDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "usage.db")
	require.NoError(t, EnsureParentDir(file))

	info, err := os.Stat(filepath.Dir(file))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// 已存在時不出錯
	require.NoError(t, EnsureParentDir(file))
	assert.NoError(t, EnsureParentDir(":memory:"))
	assert.NoError(t, EnsureParentDir("file:usage?mode=memory&cache=shared"))
}

func TestRootPathContainsModule(t *testing.T) {
	ok, err := Exists(filepath.Join(RootPath(), "go.mod"))
	require.NoError(t, err)
	assert.True(t, ok)
}
