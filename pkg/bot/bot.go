// Package bot sequences the whole run: log in to both target sites one
// after the other, idle until a stop request arrives, then tear both
// sessions down.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/chatbridge/chatbridge/pkg/browser"
	"github.com/chatbridge/chatbridge/pkg/config"
	"github.com/chatbridge/chatbridge/pkg/stats"
	"github.com/sirupsen/logrus"
)

// sessionController is what the orchestrator needs from the browser
// layer: a way to create sessions and a way to close everything down.
type sessionController interface {
	Initialize() error
	NewSession(name string, opts browser.SessionOptions) (*browser.Session, error)
	CloseAll() error
	Shutdown() error
}

// target pairs a site profile with its credentials.
type target struct {
	site  Site
	creds Credentials
}

// Bot drives the two login sequences and the idle loop.
type Bot struct {
	cfg      *config.Config
	log      *logrus.Entry
	stats    *stats.Store
	sessions sessionController

	// login runs one site's login sequence. Swappable in tests.
	login func(ctx context.Context, p page, site Site, creds Credentials) error
}

// New creates the orchestrator. All collaborators are injected; the bot
// holds no process-wide state.
func New(cfg *config.Config, log *logrus.Entry, st *stats.Store, sessions sessionController) *Bot {
	b := &Bot{
		cfg:      cfg,
		log:      log,
		stats:    st,
		sessions: sessions,
	}
	b.login = func(ctx context.Context, p page, site Site, creds Credentials) error {
		return NewLoginFlow(log, browser.DefaultCaptchaPoll).Run(ctx, p, site, creds)
	}
	return b
}

// targets returns the two sites in login order: Teams first, then the
// ChatGPT web client. The sequences run strictly one after another.
func (b *Bot) targets() []target {
	return []target{
		{site: TeamsSite(), creds: Credentials{Email: b.cfg.TeamsEmail, Password: b.cfg.TeamsPassword}},
		{site: ChatGPTSite(), creds: Credentials{Email: b.cfg.ChatGPTEmail, Password: b.cfg.ChatGPTPassword}},
	}
}

// Start logs in to both sites and then idles until ctx is cancelled.
// Any login failure aborts the whole run; the caller is responsible for
// calling Stop on every path out of Start.
func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("starting bot...")

	if err := b.sessions.Initialize(); err != nil {
		return fmt.Errorf("browser startup failed: %w", err)
	}

	for _, t := range b.targets() {
		session, err := b.sessions.NewSession(t.site.Name, browser.SessionOptions{
			Headless: b.cfg.Headless,
		})
		if err != nil {
			return fmt.Errorf("failed to open %s session: %w", t.site.Name, err)
		}

		if err := b.login(ctx, session, t.site, t.creds); err != nil {
			b.stats.Increment(stats.Errors)
			return fmt.Errorf("failed to login to %s: %w", t.site.Name, err)
		}
	}

	b.log.Info("bot successfully started and ready")
	return b.idle(ctx)
}

// idle is the keep-alive placeholder loop. It does no work; it wakes at
// the configured interval and checks for a stop request, so shutdown is
// observed within one interval.
func (b *Bot) idle(ctx context.Context) error {
	ticker := time.NewTicker(b.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Stop tears down both sessions and the browser driver. Each session is
// closed independently; failures are logged, not propagated.
func (b *Bot) Stop() {
	b.log.Info("stopping bot...")

	if err := b.sessions.Shutdown(); err != nil {
		b.log.WithError(err).Warn("browser teardown reported errors")
	}

	b.log.Info("bot stopped")
}
