package browser

import "time"

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible
	// window. Headless runs get container-friendly launch flags.
	Headless bool

	// NavigationTimeout bounds page loads (0 means default).
	NavigationTimeout time.Duration

	// ActionTimeout bounds individual element operations (0 means default).
	ActionTimeout time.Duration
}

// Default timeouts for browser operations.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultActionTimeout     = 10 * time.Second
)

// hardeningArgs suppress the automation-detection banner Chromium shows
// when driven remotely. Headless runs additionally need the sandbox and
// shared-memory flags to work inside containers.
var (
	hardeningArgs = []string{
		"--disable-blink-features=AutomationControlled",
	}

	headlessArgs = []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
	}

	suppressedDefaultArgs = []string{
		"--enable-automation",
	}
)

// millis converts a duration into the millisecond float Playwright expects.
func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
