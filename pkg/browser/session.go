package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Session is one remote-controlled browser instance. It is exclusively
// owned by the component that created it and is not safe for concurrent
// use; the bot drives each session from a single control thread.
type Session struct {
	// Name identifies the session in logs ("teams", "chatgpt").
	Name string

	// Browser is the Playwright browser instance.
	Browser playwright.Browser

	// Context is the isolated browser context.
	Context playwright.BrowserContext

	// Page is the single page the session drives.
	Page playwright.Page

	// CreatedAt is when the session was launched.
	CreatedAt time.Time

	log *logrus.Entry
}

// Navigate loads url, waiting up to the session's navigation timeout.
func (s *Session) Navigate(url string) error {
	if _, err := s.Page.Goto(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// WaitFor blocks until the element matching selector is visible, or the
// bounded wait elapses.
func (s *Session) WaitFor(selector string, timeout time.Duration) error {
	_, err := s.Page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return fmt.Errorf("wait for %q failed: %w", selector, err)
	}
	return nil
}

// Fill clears the input matching selector and types value into it.
func (s *Session) Fill(selector, value string, timeout time.Duration) error {
	err := s.Page.Fill(selector, value, playwright.PageFillOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return fmt.Errorf("fill %q failed: %w", selector, err)
	}
	return nil
}

// Click activates the element matching selector.
func (s *Session) Click(selector string, timeout time.Duration) error {
	err := s.Page.Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return fmt.Errorf("click %q failed: %w", selector, err)
	}
	return nil
}

// ClickIfVisible clicks the element if it becomes visible within the
// bounded wait. Absence is not an error: it reports false, nil. This is
// how optional controls like "stay signed in" are handled.
func (s *Session) ClickIfVisible(selector string, timeout time.Duration) (bool, error) {
	_, err := s.Page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return false, nil
	}

	if err := s.Click(selector, timeout); err != nil {
		return false, err
	}
	return true, nil
}

// Content returns the current page HTML.
func (s *Session) Content() (string, error) {
	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.Page.URL()
}

// close releases the page, context and browser, attempting each even if
// an earlier one fails.
func (s *Session) close() error {
	var firstErr error
	if err := s.Page.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.Context.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.Browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
