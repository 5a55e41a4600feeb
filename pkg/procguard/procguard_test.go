package procguard

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(log)
}

func TestWritePID_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.pid")
	g := New(path, testLogger())

	g.WritePID()

	pid, err := ReadPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	g.Remove()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_MissingFileIsFine(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "bot.pid"), testLogger())
	g.Remove() // must not panic or complain loudly
}

func TestAlreadyRunning(t *testing.T) {
	t.Run("no pid file", func(t *testing.T) {
		g := New(filepath.Join(t.TempDir(), "bot.pid"), testLogger())
		assert.False(t, g.AlreadyRunning("anything"))
	})

	t.Run("garbage content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot.pid")
		require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))
		g := New(path, testLogger())
		assert.False(t, g.AlreadyRunning("anything"))
	})

	t.Run("stale pid", func(t *testing.T) {
		// A PID beyond any plausible pid_max cannot be a live process.
		path := filepath.Join(t.TempDir(), "bot.pid")
		require.NoError(t, os.WriteFile(path, []byte("99999999"), 0o644))
		g := New(path, testLogger())
		assert.False(t, g.AlreadyRunning("anything"))
	})

	t.Run("live pid with matching cmdline", func(t *testing.T) {
		// Our own test process stands in for a running bot.
		path := filepath.Join(t.TempDir(), "bot.pid")
		require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644))
		g := New(path, testLogger())

		assert.True(t, g.AlreadyRunning("procguard"))
		assert.False(t, g.AlreadyRunning("definitely-not-in-our-cmdline"))
	})
}

func TestNotifyShutdown_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := NotifyShutdown(parent, testLogger())
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after parent cancel")
	}
}
