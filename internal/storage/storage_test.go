package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/hora-obra/internal/storage"
)

type sample struct {
	Name  string `json:"name"`
	Hours int    `json:"hours"`
}

func TestReadJSONNotExist(t *testing.T) {
	var s sample
	err := storage.ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &s)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("ReadJSON on missing file = %v, want ErrNotFound", err)
	}
}

func TestWriteJSONAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "token.json")

	if err := storage.WriteJSON(path, sample{Name: "João", Hours: 9}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var loaded sample
	if err := storage.ReadJSON(path, &loaded); err != nil {
		t.Fatalf("ReadJSON after write: %v", err)
	}
	if loaded.Name != "João" || loaded.Hours != 9 {
		t.Errorf("ReadJSON = %+v, want {João 9}", loaded)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after atomic write")
	}
}

func TestReadJSONCorruptIsBackedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	var s sample
	err := storage.ReadJSON(path, &s)
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("corrupt file reported as missing: %v", err)
	}

	if _, err2 := os.Stat(path + ".corrupt"); os.IsNotExist(err2) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
	if _, err2 := os.Stat(path); !os.IsNotExist(err2) {
		t.Error("corrupt file should have been moved aside")
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "report-01-João-Silva.pdf")

	if err := storage.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic (create): %v", err)
	}
	if err := storage.WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic (replace): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}
