// ABOUTME: Remembers recently used login emails per role
// ABOUTME: Stores entries in the config directory to prefill the login form

package recentlogins

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/markalston/course-progress/internal/models"
)

// MaxEntries is the maximum number of recent logins to keep
const MaxEntries = 5

// FileName is the file created inside the config directory
const FileName = "recent.json"

// Entry is one remembered login
type Entry struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// RecentLogins manages the list of recently used logins
type RecentLogins struct {
	configDir string
	entries   []Entry
}

type recentData struct {
	Logins []Entry `json:"logins"`
}

// New creates a new RecentLogins manager with the given config directory
func New(configDir string) *RecentLogins {
	return &RecentLogins{configDir: configDir}
}

// configFile returns the path to the recent logins JSON
func (rl *RecentLogins) configFile() string {
	return filepath.Join(rl.configDir, FileName)
}

// Load reads the recent logins from disk. Entries with an unknown
// role are dropped.
func (rl *RecentLogins) Load() ([]Entry, error) {
	if rl.configDir == "" {
		rl.entries = []Entry{}
		return rl.entries, nil
	}

	data, err := os.ReadFile(rl.configFile())
	if os.IsNotExist(err) {
		rl.entries = []Entry{}
		return rl.entries, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		rl.entries = []Entry{}
		return rl.entries, nil
	}

	rl.entries = make([]Entry, 0, len(recent.Logins))
	for _, e := range recent.Logins {
		if e.Email != "" && e.Role.Valid() {
			rl.entries = append(rl.entries, e)
		}
	}
	return rl.entries, nil
}

// Save writes the recent logins to disk
func (rl *RecentLogins) Save(entries []Entry) error {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	rl.entries = entries

	if rl.configDir == "" {
		return nil
	}
	if err := os.MkdirAll(rl.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(recentData{Logins: entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rl.configFile(), data, 0600)
}

// Add records a login (moves to front if it exists)
func (rl *RecentLogins) Add(email string, role models.Role) error {
	if rl.entries == nil {
		if _, err := rl.Load(); err != nil {
			rl.entries = []Entry{}
		}
	}

	entry := Entry{Email: strings.TrimSpace(email), Role: role}
	updated := make([]Entry, 0, len(rl.entries)+1)
	updated = append(updated, entry)
	for _, e := range rl.entries {
		if !strings.EqualFold(e.Email, entry.Email) || e.Role != entry.Role {
			updated = append(updated, e)
		}
	}
	return rl.Save(updated)
}

// List returns the current list of recent logins
func (rl *RecentLogins) List() []Entry {
	if rl.entries == nil {
		rl.Load()
	}
	return rl.entries
}

// Last returns the most recent login, if any
func (rl *RecentLogins) Last() (Entry, bool) {
	entries := rl.List()
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}

// ForRole returns the most recent email used with role
func (rl *RecentLogins) ForRole(role models.Role) string {
	for _, e := range rl.List() {
		if e.Role == role {
			return e.Email
		}
	}
	return ""
}
