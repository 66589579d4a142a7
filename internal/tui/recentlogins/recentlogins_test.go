// ABOUTME: Tests for recent login management
// ABOUTME: Validates config storage, max limit, per-role lookup, and deduplication

package recentlogins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/markalston/course-progress/internal/models"
)

func TestLoadEmpty(t *testing.T) {
	rl := New(t.TempDir())

	entries, err := rl.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d entries", len(entries))
	}
	if _, ok := rl.Last(); ok {
		t.Error("expected no last entry")
	}
}

func TestAddMoveToFront(t *testing.T) {
	tmpDir := t.TempDir()
	rl := New(tmpDir)

	rl.Add("ana@example.com", models.RoleStudent)
	rl.Add("bob@example.com", models.RoleMentor)

	entries, _ := New(tmpDir).Load()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Email != "bob@example.com" {
		t.Errorf("expected bob first, got %s", entries[0].Email)
	}

	// Re-adding with different case moves the entry instead of duplicating it
	rl.Add("ANA@example.com", models.RoleStudent)
	entries, _ = New(tmpDir).Load()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after re-add, got %d", len(entries))
	}
	if entries[0].Email != "ANA@example.com" {
		t.Errorf("expected re-added entry first, got %s", entries[0].Email)
	}
}

func TestSameEmailDifferentRolesKept(t *testing.T) {
	rl := New(t.TempDir())
	rl.Add("sam@example.com", models.RoleStudent)
	rl.Add("sam@example.com", models.RoleMentor)

	if got := len(rl.List()); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
}

func TestMaxLimit(t *testing.T) {
	rl := New(t.TempDir())

	for i := 1; i <= 7; i++ {
		rl.Add("user"+string(rune('0'+i))+"@example.com", models.RoleStudent)
	}

	entries := rl.List()
	if len(entries) != MaxEntries {
		t.Errorf("expected %d entries max, got %d", MaxEntries, len(entries))
	}
	if entries[0].Email != "user7@example.com" {
		t.Errorf("expected user7 first, got %s", entries[0].Email)
	}
}

func TestForRole(t *testing.T) {
	rl := New(t.TempDir())
	rl.Add("mentor@example.com", models.RoleMentor)
	rl.Add("student@example.com", models.RoleStudent)

	if got := rl.ForRole(models.RoleMentor); got != "mentor@example.com" {
		t.Errorf("ForRole(mentor) = %q", got)
	}
	if got := rl.ForRole(models.RoleStudent); got != "student@example.com" {
		t.Errorf("ForRole(student) = %q", got)
	}
	if got := rl.ForRole("ADMIN"); got != "" {
		t.Errorf("ForRole(unknown) = %q, want empty", got)
	}
}

func TestLoadDropsInvalidEntries(t *testing.T) {
	tmpDir := t.TempDir()
	data := `{"logins":[{"email":"a@example.com","role":"ADMIN"},{"email":"","role":"STUDENT"},{"email":"b@example.com","role":"MENTOR"}]}`
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	entries, err := New(tmpDir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Email != "b@example.com" {
		t.Errorf("expected only the mentor entry, got %+v", entries)
	}
}

func TestLoadInvalidJSONStartsFresh(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, FileName), []byte("{not json"), 0600)

	entries, err := New(tmpDir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d", len(entries))
	}
}

func TestCreatesConfigDir(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "progress")
	rl := New(configDir)

	if _, err := os.Stat(configDir); !os.IsNotExist(err) {
		t.Fatal("config dir should not exist yet")
	}

	if err := rl.Add("a@example.com", models.RoleStudent); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(configDir, FileName))
	if err != nil {
		t.Fatalf("expected recent file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestEmptyConfigDirKeepsInMemory(t *testing.T) {
	rl := New("")
	if err := rl.Add("a@example.com", models.RoleStudent); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if last, ok := rl.Last(); !ok || last.Email != "a@example.com" {
		t.Errorf("expected in-memory entry, got %+v", last)
	}
}
