// Package stats persists the bot's run counters to a JSON file. Every
// increment stamps the last-activity time, recomputes uptime and rewrites
// the file. Persistence problems are logged and swallowed; counters must
// never take the bot down.
package stats

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultPath is the stats file the bot writes unless told otherwise.
const DefaultPath = "bot_stats.json"

// Counter names a counter in the stats record.
type Counter string

const (
	MessagesProcessed Counter = "messages_processed"
	ResponsesSent     Counter = "responses_sent"
	Errors            Counter = "errors"
)

// Record is the on-disk shape of the stats file.
type Record struct {
	RunID             string     `json:"run_id"`
	StartTime         time.Time  `json:"start_time"`
	MessagesProcessed int        `json:"messages_processed"`
	ResponsesSent     int        `json:"responses_sent"`
	Errors            int        `json:"errors"`
	LastActivity      *time.Time `json:"last_activity"`
	UptimeSeconds     float64    `json:"uptime"`
}

// Store owns the stats record and its file. Access is single-threaded by
// design: the bot has one control thread, so no locking is done here.
type Store struct {
	path   string
	log    *logrus.Entry
	record Record
	now    func() time.Time
}

// New creates a store for the given file, merging any existing file values
// over a fresh record. A new run identifier is minted for this process.
func New(path string, log *logrus.Entry) *Store {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path: path,
		log:  log,
		now:  time.Now,
		record: Record{
			RunID:     uuid.NewString(),
			StartTime: time.Now(),
		},
	}
	s.load()
	return s
}

// load merges file values into the record. Read failures are warnings.
func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("could not load stats")
		}
		return
	}

	// Keep this run's identity: only the persisted history is merged in.
	runID := s.record.RunID
	startTime := s.record.StartTime

	if err := json.Unmarshal(raw, &s.record); err != nil {
		s.log.WithError(err).Warn("could not parse stats file")
		return
	}

	s.record.RunID = runID
	if s.record.StartTime.IsZero() {
		s.record.StartTime = startTime
	}
}

// Increment bumps the named counter, stamps last activity and persists.
func (s *Store) Increment(c Counter) {
	switch c {
	case MessagesProcessed:
		s.record.MessagesProcessed++
	case ResponsesSent:
		s.record.ResponsesSent++
	case Errors:
		s.record.Errors++
	default:
		s.log.Warnf("unknown stats counter %q", c)
		return
	}

	now := s.now()
	s.record.LastActivity = &now
	s.Save()
}

// Save recomputes uptime and rewrites the file atomically. Failures are
// logged as warnings and otherwise ignored.
func (s *Store) Save() {
	s.record.UptimeSeconds = s.now().Sub(s.record.StartTime).Seconds()

	raw, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		s.log.WithError(err).Warn("could not encode stats")
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.log.WithError(err).Warn("could not save stats")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		s.log.WithError(err).Warn("could not save stats")
	}
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() Record {
	return s.record
}

// Read loads a stats record from path without creating a store. Used by
// the status command to report on a (possibly running) bot.
func Read(path string) (*Record, error) {
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
