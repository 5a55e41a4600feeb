// Package netprobe checks outbound connectivity before the bot starts
// opening browser sessions. The primary probe is a raw TCP dial to a
// public DNS endpoint; an HTTP probe is available as a second opinion.
package netprobe

import (
	"context"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Config tunes the probe endpoints and timing.
type Config struct {
	// Addr is the TCP endpoint dialled by Connected.
	Addr string

	// ProbeURL is the endpoint used by ConnectedHTTP. Any response,
	// whatever the status code, counts as reachable.
	ProbeURL string

	// DialTimeout bounds a single probe attempt.
	DialTimeout time.Duration

	// PollInterval is the pause between attempts in WaitForNetwork.
	PollInterval time.Duration
}

// DefaultConfig probes Google public DNS on the standard DNS port, with
// the connectivity-check URL as the HTTP fallback.
func DefaultConfig() Config {
	return Config{
		Addr:         "8.8.8.8:53",
		ProbeURL:     "http://connectivitycheck.gstatic.com/generate_204",
		DialTimeout:  5 * time.Second,
		PollInterval: 5 * time.Second,
	}
}

// Prober polls outbound connectivity with bounded per-attempt timeouts.
type Prober struct {
	cfg    Config
	client *resty.Client
	log    *logrus.Entry
}

// New creates a prober. Zero-valued config fields fall back to defaults.
func New(cfg Config, log *logrus.Entry) *Prober {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.ProbeURL == "" {
		cfg.ProbeURL = defaults.ProbeURL
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaults.DialTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}

	client := resty.New().
		SetTimeout(cfg.DialTimeout).
		SetRetryCount(0)

	return &Prober{cfg: cfg, client: client, log: log}
}

// Connected reports whether a single TCP dial to the probe address
// succeeds within the dial timeout.
func (p *Prober) Connected() bool {
	conn, err := net.DialTimeout("tcp", p.cfg.Addr, p.cfg.DialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// ConnectedHTTP reports whether the HTTP probe endpoint answered at all.
func (p *Prober) ConnectedHTTP() bool {
	_, err := p.client.R().Head(p.cfg.ProbeURL)
	return err == nil
}

// reachable tries the TCP probe first and falls back to the HTTP probe;
// some networks block outbound DNS dials but pass HTTP.
func (p *Prober) reachable() bool {
	return p.Connected() || p.ConnectedHTTP()
}

// WaitForNetwork polls the probes until one succeeds, the overall
// timeout elapses, or ctx is cancelled. Returns true only on success.
func (p *Prober) WaitForNetwork(ctx context.Context, timeout time.Duration) bool {
	p.log.Info("waiting for network connection...")

	deadline := time.Now().Add(timeout)
	for {
		if p.reachable() {
			p.log.Info("network connection established")
			return true
		}

		if time.Now().After(deadline) {
			p.log.Error("network connection timeout")
			return false
		}

		select {
		case <-ctx.Done():
			p.log.Warn("network wait cancelled")
			return false
		case <-time.After(p.cfg.PollInterval):
		}
	}
}
