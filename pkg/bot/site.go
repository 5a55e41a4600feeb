package bot

import "time"

// Credentials is one email/password pair from the configuration.
type Credentials struct {
	Email    string
	Password string
}

// Site describes how to log in to one target web application: where it
// lives, which elements carry the credential form, and which element
// proves the session is usable afterwards. The same login flow drives
// every Site; only the profile differs.
type Site struct {
	// Name identifies the site in logs and session names.
	Name string

	// URL is the page navigated to at the start of the flow.
	URL string

	// EntrySelector, when set, is a control that must be activated
	// before the credential form appears (e.g. a "Log in" button).
	EntrySelector string
	EntryTimeout  time.Duration

	// EmailSelector is the identity input; EmailNextSelector advances
	// to the password step.
	EmailSelector     string
	EmailNextSelector string

	// PasswordSelector is the password input; SubmitSelector submits
	// the form.
	PasswordSelector string
	SubmitSelector   string

	// StaySignedInSelector, when set, is an optional confirmation
	// control clicked if it shows up within StaySignedInTimeout.
	// Its absence is not an error.
	StaySignedInSelector string
	StaySignedInTimeout  time.Duration

	// LoggedInSelector is the post-login marker unique to the site;
	// its appearance is the sole signal that login succeeded.
	LoggedInSelector string
	LoggedInTimeout  time.Duration

	// CredentialTimeout bounds the wait for each credential input.
	CredentialTimeout time.Duration
}

// TeamsSite is the Microsoft Teams login profile. The element ids are
// the Microsoft identity platform's: i0116 (email), i0118 (password) and
// idSIButton9, which serves as next, submit and stay-signed-in in turn.
func TeamsSite() Site {
	return Site{
		Name:                 "teams",
		URL:                  "https://teams.microsoft.com",
		EmailSelector:        "#i0116",
		EmailNextSelector:    "#idSIButton9",
		PasswordSelector:     "#i0118",
		SubmitSelector:       "#idSIButton9",
		StaySignedInSelector: "#idSIButton9",
		StaySignedInTimeout:  5 * time.Second,
		LoggedInSelector:     `[data-tid="app-bar-chat"]`,
		LoggedInTimeout:      30 * time.Second,
		CredentialTimeout:    15 * time.Second,
	}
}

// ChatGPTSite is the ChatGPT web client login profile. The flow starts
// from a landing page, so a "Log in" entry control comes first; the
// message composer is the post-login marker.
func ChatGPTSite() Site {
	return Site{
		Name:              "chatgpt",
		URL:               "https://chat.openai.com",
		EntrySelector:     `button:has-text("Log in")`,
		EntryTimeout:      10 * time.Second,
		EmailSelector:     "#username",
		EmailNextSelector: `button[type="submit"]`,
		PasswordSelector:  "#password",
		SubmitSelector:    `button[type="submit"]`,
		LoggedInSelector:  `textarea[placeholder*="Message"]`,
		LoggedInTimeout:   30 * time.Second,
		CredentialTimeout: 15 * time.Second,
	}
}
