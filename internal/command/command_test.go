package command

import (
	"bytes"
	"path/filepath"
	"testing"

	"resourcegen/config"
	commandHandler "resourcegen/internal/command/handler"
	"resourcegen/internal/database"
	"resourcegen/internal/service"
	"resourcegen/internal/service/generation"
	"resourcegen/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	conf := &config.Configuration{}
	conf.Store.Path = filepath.Join(t.TempDir(), "usage.db")
	conf.ApplyDefaults()

	logger := zap.NewNop()
	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{}

	newCmd := func() (*Command, func(), error) {
		store, cleanup, err := database.NewUsageStore(logger, conf, trace)
		if err != nil {
			return nil, nil, err
		}
		resourceService := service.NewResourceService(logger, conf, trace, metric, store, generation.NewStubGenerator(), nil, nil)
		snapshotService := service.NewSnapshotService(logger, trace, metric, store)
		return NewCommand(commandHandler.NewUsageHandler(logger, conf, resourceService, snapshotService)), cleanup, nil
	}

	out := &bytes.Buffer{}
	root := &cobra.Command{Use: "app"}
	root.SetOut(out)
	root.SetErr(out)
	Register(root, newCmd)
	return root, out
}

func execute(t *testing.T, root *cobra.Command, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCommands(t *testing.T) {
	root, out := newTestRoot(t)

	assert.Contains(t, execute(t, root, out, "migrate"), "schema is up to date")
	assert.Contains(t, execute(t, root, out, "activate", "a@x.com"), "a@x.com activated")

	usage := execute(t, root, out, "usage", "a@x.com")
	assert.Contains(t, usage, `"paid": true`)
	assert.Contains(t, usage, `"count": 0`)

	stats := execute(t, root, out, "stats")
	assert.Contains(t, stats, `"identities": 1`)
	assert.Contains(t, stats, `"paid_identities": 1`)
}

func TestActivateRequiresIdentity(t *testing.T) {
	root, _ := newTestRoot(t)
	root.SetArgs([]string{"activate"})
	assert.Error(t, root.Execute())

	root.SetArgs([]string{"activate", "  "})
	assert.Error(t, root.Execute())
}
