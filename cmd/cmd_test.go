package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/server"
	"github.com/abhisek/nudge/internal/store"
)

const morningJSON = `{"id":"morning","type":"checklist","title":"Morning","items":[
	{"text":"Stretch"},{"text":"Walk"}
]}`

// startMirror runs a seeded mirror server and points the CLI at it.
func startMirror(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	st, err := store.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	seed := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seed, "morning.json"), []byte(morningJSON), 0o644))
	_, err = server.Seed(t.Context(), st, seed, zap.NewNop())
	require.NoError(t, err)

	srv, err := server.New(zap.NewNop(), server.Config{Store: st, Mode: gin.TestMode})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	t.Setenv("NUDGE_API_BASE_URL", ts.URL)
	t.Setenv("NUDGE_SESSION_USER_ID", "user-1")
	t.Setenv("NUDGE_LOGGER_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	require.NoError(t, resetCmd.Flags().Set("kind", ""))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nudge (devel)\n", out)
}

func TestResetThenHistory(t *testing.T) {
	startMirror(t)

	out, err := run(t, "reset", "morning")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset morning (checklist).")

	out, err = run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "morning")
	assert.Contains(t, out, "Checklist")
}

func TestReset_RejectsUnknownKind(t *testing.T) {
	startMirror(t)
	_, err := run(t, "reset", "morning", "--kind", "poll")
	assert.ErrorContains(t, err, `unknown kind "poll"`)
}

func TestHistory_RequiresUser(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NUDGE_SESSION_USER_ID", "")
	_, err := run(t, "history")
	assert.Error(t, err)
}

func TestTriggerAddsNotification(t *testing.T) {
	startMirror(t)

	out, err := run(t, "trigger", "Completed", "one", "stack!", "--detail", "screen=settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Nudge sent: Morning (Checklist, morning)")
}

func TestTrigger_RequiresAction(t *testing.T) {
	startMirror(t)
	_, err := run(t, "trigger")
	assert.Error(t, err)
}
