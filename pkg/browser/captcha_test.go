package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanForCaptcha(t *testing.T) {
	tests := []struct {
		name string
		html string
		want Detection
	}{
		{
			name: "recaptcha iframe",
			html: `<html><body><iframe src="https://www.google.com/recaptcha/api2/anchor"></iframe></body></html>`,
			want: Detected,
		},
		{
			name: "hcaptcha iframe",
			html: `<html><body><iframe src="https://newassets.hcaptcha.com/captcha/v1/frame"></iframe></body></html>`,
			want: Detected,
		},
		{
			name: "recaptcha div class",
			html: `<html><body><div class="g-recaptcha" data-sitekey="abc"></div></body></html>`,
			want: Detected,
		},
		{
			name: "marker buried in busy page",
			html: `<html><body><nav>menu</nav><main><form><input id="username"/></form>` +
				`<div class="g-recaptcha"></div></main><footer>footer</footer></body></html>`,
			want: Detected,
		},
		{
			name: "clean login page",
			html: `<html><body><form><input id="i0116"/><input id="i0118" type="password"/>` +
				`<button id="idSIButton9">Next</button></form></body></html>`,
			want: NotDetected,
		},
		{
			name: "iframe to unrelated site",
			html: `<html><body><iframe src="https://example.com/widget"></iframe></body></html>`,
			want: NotDetected,
		},
		{
			name: "captcha word in text only",
			html: `<html><body><p>This page once had a recaptcha challenge.</p></body></html>`,
			want: NotDetected,
		},
		{
			name: "empty page",
			html: ``,
			want: NotDetected,
		},
		{
			name: "malformed html is fail-open",
			html: `<html><body><div class="><<<iframe`,
			want: NotDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanForCaptcha(tt.html))
		})
	}
}

func TestScanForCaptcha_Idempotent(t *testing.T) {
	html := `<html><body><iframe src="//recaptcha/frame"></iframe></body></html>`
	first := ScanForCaptcha(html)
	second := ScanForCaptcha(html)
	assert.Equal(t, first, second)
	assert.Equal(t, Detected, first)
}

func TestDetection_String(t *testing.T) {
	assert.Equal(t, "detected", Detected.String())
	assert.Equal(t, "not detected", NotDetected.String())
}
