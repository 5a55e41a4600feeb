package browser

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Detection is the outcome of a CAPTCHA scan. The scan fails open:
// anything that prevents inspection reports NotDetected, since detection
// only decides whether to pause for a human.
type Detection int

const (
	NotDetected Detection = iota
	Detected
)

// String implements fmt.Stringer for log output.
func (d Detection) String() string {
	if d == Detected {
		return "detected"
	}
	return "not detected"
}

// captchaSelectors are the known challenge markers: embedded reCAPTCHA or
// hCaptcha frames, and the reCAPTCHA widget class.
var captchaSelectors = []string{
	`iframe[src*="recaptcha"]`,
	`iframe[src*="hcaptcha"]`,
	`div.g-recaptcha`,
}

// DefaultCaptchaPoll is how often a blocked session re-checks for the
// challenge to clear while a human solves it.
const DefaultCaptchaPoll = 5 * time.Second

// ScanForCaptcha inspects a page's HTML for challenge markers. Parse
// failures report NotDetected.
func ScanForCaptcha(html string) Detection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return NotDetected
	}

	for _, selector := range captchaSelectors {
		if doc.Find(selector).Length() > 0 {
			return Detected
		}
	}
	return NotDetected
}

// DetectCaptcha scans the session's current page. A failure to read the
// page reports NotDetected; a positive detection logs a warning so the
// operator knows manual intervention is needed.
func (s *Session) DetectCaptcha() Detection {
	html, err := s.Content()
	if err != nil {
		return NotDetected
	}

	if ScanForCaptcha(html) == Detected {
		s.log.Warn("captcha detected - please solve it manually in the browser")
		return Detected
	}
	return NotDetected
}

// WaitForCaptchaClear polls the page until the challenge disappears. The
// wait has no deadline - a human has to solve it - but it observes ctx
// so a shutdown request can end it.
func (s *Session) WaitForCaptchaClear(ctx context.Context, poll time.Duration) error {
	if poll <= 0 {
		poll = DefaultCaptchaPoll
	}

	for s.DetectCaptcha() == Detected {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
	return nil
}
