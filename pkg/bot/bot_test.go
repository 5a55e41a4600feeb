package bot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chatbridge/chatbridge/pkg/browser"
	"github.com/chatbridge/chatbridge/pkg/config"
	"github.com/chatbridge/chatbridge/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubController fakes the browser layer for orchestration tests.
type stubController struct {
	initErr       error
	newSessionErr error

	opened       []string
	openedOpts   []browser.SessionOptions
	closedAll    bool
	shutdownDone bool
}

func (c *stubController) Initialize() error { return c.initErr }

func (c *stubController) NewSession(name string, opts browser.SessionOptions) (*browser.Session, error) {
	if c.newSessionErr != nil {
		return nil, c.newSessionErr
	}
	c.opened = append(c.opened, name)
	c.openedOpts = append(c.openedOpts, opts)
	return &browser.Session{Name: name}, nil
}

func (c *stubController) CloseAll() error { c.closedAll = true; return nil }

func (c *stubController) Shutdown() error { c.shutdownDone = true; return nil }

func testConfig() *config.Config {
	return &config.Config{
		TeamsEmail:      "bot@example.com",
		TeamsPassword:   "hunter2",
		ChatGPTEmail:    "bot@example.com",
		ChatGPTPassword: "hunter2",
		CheckInterval:   1,
		Headless:        true,
	}
}

func testStats(t *testing.T) *stats.Store {
	t.Helper()
	return stats.New(filepath.Join(t.TempDir(), "bot_stats.json"), testLogger())
}

func TestBot_StartLogsInSequentiallyThenIdles(t *testing.T) {
	ctrl := &stubController{}
	b := New(testConfig(), testLogger(), testStats(t), ctrl)

	var loginOrder []string
	b.login = func(_ context.Context, _ page, site Site, creds Credentials) error {
		loginOrder = append(loginOrder, site.Name)
		assert.Equal(t, "bot@example.com", creds.Email)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- b.Start(ctx) }()

	// Give the logins time to run, then request shutdown; the idle
	// loop must observe it within one poll interval.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("bot did not stop within one poll interval of cancellation")
	}

	assert.Equal(t, []string{"teams", "chatgpt"}, loginOrder)
	assert.Equal(t, []string{"teams", "chatgpt"}, ctrl.opened)

	// The headless flag from the config reaches every session.
	for _, opts := range ctrl.openedOpts {
		assert.True(t, opts.Headless)
	}
}

func TestBot_FirstLoginFailureAbortsRun(t *testing.T) {
	ctrl := &stubController{}
	st := testStats(t)
	b := New(testConfig(), testLogger(), st, ctrl)

	b.login = func(_ context.Context, _ page, site Site, _ Credentials) error {
		if site.Name == "teams" {
			return errors.New("login error: marker timeout")
		}
		t.Fatalf("login attempted for %s after the first failure", site.Name)
		return nil
	}

	err := b.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teams")

	// A login failure is a counted error event.
	assert.Equal(t, 1, st.Snapshot().Errors)
}

func TestBot_SecondLoginFailureAbortsRun(t *testing.T) {
	ctrl := &stubController{}
	b := New(testConfig(), testLogger(), testStats(t), ctrl)

	b.login = func(_ context.Context, _ page, site Site, _ Credentials) error {
		if site.Name == "chatgpt" {
			return errors.New("login error: marker timeout")
		}
		return nil
	}

	err := b.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatgpt")
	assert.Equal(t, []string{"teams", "chatgpt"}, ctrl.opened)
}

func TestBot_InitializeFailureIsFatal(t *testing.T) {
	ctrl := &stubController{initErr: errors.New("driver unavailable")}
	b := New(testConfig(), testLogger(), testStats(t), ctrl)

	err := b.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser startup failed")
	assert.Empty(t, ctrl.opened)
}

func TestBot_SessionConstructionFailureIsFatal(t *testing.T) {
	ctrl := &stubController{newSessionErr: errors.New("browser binary missing")}
	b := New(testConfig(), testLogger(), testStats(t), ctrl)

	b.login = func(context.Context, page, Site, Credentials) error {
		t.Fatal("login must not run when the session could not be created")
		return nil
	}

	err := b.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open teams session")
}

func TestBot_StopShutsDownSessions(t *testing.T) {
	ctrl := &stubController{}
	b := New(testConfig(), testLogger(), testStats(t), ctrl)

	b.Stop()
	assert.True(t, ctrl.shutdownDone)
}
