// Package procguard handles the bot's process hygiene: the PID file,
// duplicate-instance detection and shutdown signals.
package procguard

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// DefaultPIDPath is the PID file written at startup.
const DefaultPIDPath = "bot.pid"

// Guard owns the PID file for one bot process.
type Guard struct {
	pidPath string
	log     *logrus.Entry
}

// New creates a guard for the given PID file path.
func New(pidPath string, log *logrus.Entry) *Guard {
	if pidPath == "" {
		pidPath = DefaultPIDPath
	}
	return &Guard{pidPath: pidPath, log: log}
}

// WritePID records this process's id. Failure is a warning: the bot can
// run without its PID file, it just loses duplicate detection.
func (g *Guard) WritePID() {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(g.pidPath, []byte(pid), 0o644); err != nil {
		g.log.WithError(err).Warn("could not write PID file")
	}
}

// Remove deletes the PID file. Called on graceful shutdown only; a crash
// leaves the file behind for AlreadyRunning to revalidate.
func (g *Guard) Remove() {
	if err := os.Remove(g.pidPath); err != nil && !os.IsNotExist(err) {
		g.log.WithError(err).Warn("could not remove PID file")
	}
}

// AlreadyRunning reports whether the PID file points at a live process
// whose command line contains marker. A stale file (dead PID, recycled
// PID running something else, or unreadable content) does not count.
func (g *Guard) AlreadyRunning(marker string) bool {
	raw, err := os.ReadFile(g.pidPath)
	if err != nil {
		return false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		g.log.WithError(err).Warn("could not parse PID file")
		return false
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		// No such process: the file is stale.
		return false
	}

	cmdline, err := proc.Cmdline()
	if err != nil {
		g.log.WithError(err).Warn("could not inspect process command line")
		return false
	}

	return strings.Contains(cmdline, marker)
}

// NotifyShutdown returns a context cancelled on SIGINT or SIGTERM. The
// two signals are treated the same: both request a graceful stop.
func NotifyShutdown(parent context.Context, log *logrus.Entry) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Infof("received signal %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// ReadPID returns the process id recorded in the PID file at path.
func ReadPID(path string) (int, error) {
	if path == "" {
		path = DefaultPIDPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(raw)))
}
