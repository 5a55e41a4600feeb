// Package browser owns the remote-controlled browser sessions the bot
// logs in with. A Manager launches hardened Chromium instances through
// Playwright; each Session wraps one browser with the small set of page
// operations the login flow needs.
package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Manager launches and tracks browser sessions. It must be initialized
// before the first session is created and shut down after the last one
// is closed.
type Manager struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	sessions    map[string]*Session
	log         *logrus.Entry
	initialized bool
}

// NewManager creates a session manager.
func NewManager(log *logrus.Entry) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		log:      log,
	}
}

// Initialize installs (if needed) and starts the Playwright driver.
// Driver output is discarded so it cannot interleave with the bot's log.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.pw = pw
	m.initialized = true
	return nil
}

// NewSession launches a fresh hardened Chromium instance bound to name.
// Construction failures propagate; there is no retry at this level.
func (m *Manager) NewSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}

	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultActionTimeout
	}

	args := append([]string{}, hardeningArgs...)
	if opts.Headless {
		args = append(args, headlessArgs...)
	}

	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:          playwright.Bool(opts.Headless),
		Args:              args,
		IgnoreDefaultArgs: suppressedDefaultArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext()
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultNavigationTimeout(millis(opts.NavigationTimeout))
	page.SetDefaultTimeout(millis(opts.ActionTimeout))

	session := &Session{
		Name:      name,
		Browser:   browser,
		Context:   context,
		Page:      page,
		CreatedAt: time.Now(),
		log:       m.log.WithField("session", name),
	}

	m.sessions[name] = session
	return session, nil
}

// CloseSession closes one session and forgets it. Each of the session's
// resources is closed independently so a failure on one cannot leak the
// others.
func (m *Manager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	err := session.close()
	delete(m.sessions, name)
	return err
}

// CloseAll closes every session. Failures are collected, not short-circuited:
// one stuck browser must not block closing the rest.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, session := range m.sessions {
		if err := session.close(); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
		delete(m.sessions, name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %v", errs)
	}
	return nil
}

// Shutdown closes all sessions and stops the Playwright driver.
func (m *Manager) Shutdown() error {
	closeErr := m.CloseAll()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized && m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}

	return closeErr
}
