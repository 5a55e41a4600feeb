package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/chatbridge/chatbridge/pkg/browser"
	"github.com/sirupsen/logrus"
)

// State is where a login attempt currently stands.
type State int

const (
	StateNotStarted State = iota
	StatePageLoaded
	StateCaptchaWait
	StateCredentialsEntered
	StateAwaitingConfirmation
	StateLoggedIn
	StateFailed
)

var stateNames = map[State]string{
	StateNotStarted:           "not_started",
	StatePageLoaded:           "page_loaded",
	StateCaptchaWait:          "captcha_wait",
	StateCredentialsEntered:   "credentials_entered",
	StateAwaitingConfirmation: "awaiting_confirmation",
	StateLoggedIn:             "logged_in",
	StateFailed:               "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// page is the slice of *browser.Session the login flow drives. Narrowing
// it to an interface keeps the state machine testable without a browser.
type page interface {
	Navigate(url string) error
	WaitFor(selector string, timeout time.Duration) error
	Fill(selector, value string, timeout time.Duration) error
	Click(selector string, timeout time.Duration) error
	ClickIfVisible(selector string, timeout time.Duration) (bool, error)
	DetectCaptcha() browser.Detection
	WaitForCaptchaClear(ctx context.Context, poll time.Duration) error
}

// LoginFlow walks one browser session through a site's login sequence:
// navigate, pause on CAPTCHA until a human clears it, enter credentials,
// handle the optional confirmation, then wait for the post-login marker.
//
// A failure at any step moves the flow to StateFailed and returns the
// cause; the caller does not retry. There is no rollback - a half-filled
// form is simply abandoned.
type LoginFlow struct {
	log         *logrus.Entry
	captchaPoll time.Duration
	state       State
}

// NewLoginFlow creates a flow. captchaPoll <= 0 uses the default poll.
func NewLoginFlow(log *logrus.Entry, captchaPoll time.Duration) *LoginFlow {
	if captchaPoll <= 0 {
		captchaPoll = browser.DefaultCaptchaPoll
	}
	return &LoginFlow{
		log:         log,
		captchaPoll: captchaPoll,
		state:       StateNotStarted,
	}
}

// State returns the flow's current state.
func (f *LoginFlow) State() State {
	return f.state
}

// Run executes the login sequence for site on p.
func (f *LoginFlow) Run(ctx context.Context, p page, site Site, creds Credentials) error {
	log := f.log.WithField("site", site.Name)
	log.Info("starting login")

	f.state = StateNotStarted

	if err := p.Navigate(site.URL); err != nil {
		return f.fail(log, err)
	}
	f.state = StatePageLoaded

	// A challenge right after navigation blocks the whole session until
	// a human solves it. The wait is unbounded but observes ctx.
	if p.DetectCaptcha() == browser.Detected {
		f.state = StateCaptchaWait
		if err := p.WaitForCaptchaClear(ctx, f.captchaPoll); err != nil {
			return f.fail(log, err)
		}
		f.state = StatePageLoaded
	}

	if site.EntrySelector != "" {
		if err := p.Click(site.EntrySelector, site.EntryTimeout); err != nil {
			return f.fail(log, err)
		}
	}

	if err := p.WaitFor(site.EmailSelector, site.CredentialTimeout); err != nil {
		return f.fail(log, err)
	}
	if err := p.Fill(site.EmailSelector, creds.Email, site.CredentialTimeout); err != nil {
		return f.fail(log, err)
	}
	if err := p.Click(site.EmailNextSelector, site.CredentialTimeout); err != nil {
		return f.fail(log, err)
	}

	if err := p.WaitFor(site.PasswordSelector, site.CredentialTimeout); err != nil {
		return f.fail(log, err)
	}
	if err := p.Fill(site.PasswordSelector, creds.Password, site.CredentialTimeout); err != nil {
		return f.fail(log, err)
	}
	if err := p.Click(site.SubmitSelector, site.CredentialTimeout); err != nil {
		return f.fail(log, err)
	}
	f.state = StateCredentialsEntered

	if site.StaySignedInSelector != "" {
		f.state = StateAwaitingConfirmation
		clicked, err := p.ClickIfVisible(site.StaySignedInSelector, site.StaySignedInTimeout)
		if err != nil {
			return f.fail(log, err)
		}
		if !clicked {
			log.Debug("stay-signed-in prompt did not appear, skipping")
		}
	}

	if err := p.WaitFor(site.LoggedInSelector, site.LoggedInTimeout); err != nil {
		return f.fail(log, err)
	}

	f.state = StateLoggedIn
	log.Info("successfully logged in")
	return nil
}

// fail records the terminal state and classifies the error.
func (f *LoginFlow) fail(log *logrus.Entry, err error) error {
	f.state = StateFailed
	log.WithError(err).Error("login error")
	return fmt.Errorf("login error: %w", err)
}
