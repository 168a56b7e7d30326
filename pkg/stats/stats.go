package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// SaveInterval is the minimum time between two writes of the stats file
// triggered by command calls. Flush writes unconditionally.
const SaveInterval = 10 * time.Second

// CommandStats represents statistics for a single command
type CommandStats struct {
	Name            string        `json:"name"`
	CallCount       int           `json:"call_count"`
	ErrorCount      int           `json:"error_count"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	LastUsed        time.Time     `json:"last_used"`
}

// SessionStats represents statistics since the process started
type SessionStats struct {
	StartTime time.Time                `json:"start_time"`
	Commands  map[string]*CommandStats `json:"commands"`
}

// PersistentStats represents statistics persisted across all runs
type PersistentStats struct {
	FirstRecorded time.Time                `json:"first_recorded"`
	LastUpdated   time.Time                `json:"last_updated"`
	Commands      map[string]*CommandStats `json:"commands"`
}

// StatsManager manages command usage statistics
type StatsManager struct {
	sessionStats    *SessionStats
	persistentStats *PersistentStats
	statsFilePath   string
	lastSaved       time.Time
	mutex           sync.RWMutex
}

// NewStatsManager creates a new StatsManager, loading earlier statistics
// from statsFilePath if present
func NewStatsManager(statsFilePath string) (*StatsManager, error) {
	now := time.Now()
	manager := &StatsManager{
		sessionStats: &SessionStats{
			StartTime: now,
			Commands:  make(map[string]*CommandStats),
		},
		persistentStats: &PersistentStats{
			FirstRecorded: now,
			LastUpdated:   now,
			Commands:      make(map[string]*CommandStats),
		},
		statsFilePath: statsFilePath,
	}

	if err := os.MkdirAll(filepath.Dir(statsFilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for stats file: %v", err)
	}

	data, err := os.ReadFile(statsFilePath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, manager.persistentStats); err != nil {
			return nil, fmt.Errorf("failed to parse stats file: %v", err)
		}
		if manager.persistentStats.Commands == nil {
			manager.persistentStats.Commands = make(map[string]*CommandStats)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read stats file: %v", err)
	}

	return manager, nil
}

// RecordCommand records one command call
func (m *StatsManager) RecordCommand(name string, duration time.Duration, failed bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	record(m.sessionStats.Commands, name, duration, failed, now)
	record(m.persistentStats.Commands, name, duration, failed, now)
	m.persistentStats.LastUpdated = now

	if now.Sub(m.lastSaved) < SaveInterval {
		return nil
	}
	return m.savePersistentStats(now)
}

// Flush writes the persistent statistics to disk
func (m *StatsManager) Flush() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.savePersistentStats(time.Now())
}

func record(commands map[string]*CommandStats, name string, duration time.Duration, failed bool, now time.Time) {
	cmd, ok := commands[name]
	if !ok {
		cmd = &CommandStats{Name: name}
		commands[name] = cmd
	}

	cmd.CallCount++
	if failed {
		cmd.ErrorCount++
	}
	cmd.TotalDuration += duration
	cmd.AverageDuration = cmd.TotalDuration / time.Duration(cmd.CallCount)
	cmd.LastUsed = now
}

// GetSessionStats returns a copy of the statistics for this run
func (m *StatsManager) GetSessionStats() *SessionStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return &SessionStats{
		StartTime: m.sessionStats.StartTime,
		Commands:  copyCommands(m.sessionStats.Commands),
	}
}

// GetPersistentStats returns a copy of the statistics across all runs
func (m *StatsManager) GetPersistentStats() *PersistentStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return &PersistentStats{
		FirstRecorded: m.persistentStats.FirstRecorded,
		LastUpdated:   m.persistentStats.LastUpdated,
		Commands:      copyCommands(m.persistentStats.Commands),
	}
}

func copyCommands(src map[string]*CommandStats) map[string]*CommandStats {
	dst := make(map[string]*CommandStats, len(src))
	for name, cmd := range src {
		c := *cmd
		dst[name] = &c
	}
	return dst
}

// savePersistentStats saves persistent stats to file; callers hold the lock
func (m *StatsManager) savePersistentStats(now time.Time) error {
	data, err := json.MarshalIndent(m.persistentStats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %v", err)
	}

	if err := os.WriteFile(m.statsFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %v", err)
	}
	m.lastSaved = now
	return nil
}

// FormatStats formats statistics as a string
func FormatStats(sessionStats *SessionStats, persistentStats *PersistentStats) string {
	var b strings.Builder
	b.WriteString("Command Usage Statistics\n\n")

	b.WriteString("Current Session:\n")
	b.WriteString(fmt.Sprintf("Started: %s\n", sessionStats.StartTime.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Duration: %s\n\n", time.Since(sessionStats.StartTime).Round(time.Second)))
	writeTable(&b, sessionStats.Commands, "No commands called in this session.\n")

	b.WriteString("\nAll-Time:\n")
	b.WriteString(fmt.Sprintf("First recorded: %s\n", persistentStats.FirstRecorded.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Last updated: %s\n\n", persistentStats.LastUpdated.Format(time.RFC3339)))
	writeTable(&b, persistentStats.Commands, "No commands recorded.\n")

	return b.String()
}

func writeTable(b *strings.Builder, commands map[string]*CommandStats, empty string) {
	if len(commands) == 0 {
		b.WriteString(empty)
		return
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("Command                 | Calls | Errors | Avg Time  | Total Time\n")
	b.WriteString("------------------------|-------|--------|-----------|-----------\n")
	for _, name := range names {
		cmd := commands[name]
		b.WriteString(fmt.Sprintf("%-24s| %5d | %6d | %9s | %10s\n",
			cmd.Name,
			cmd.CallCount,
			cmd.ErrorCount,
			cmd.AverageDuration.Round(time.Millisecond).String(),
			cmd.TotalDuration.Round(time.Millisecond).String()))
	}
}
