package pipeline

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.txt")
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}
		first, err := WriteFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "new")
			return err
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "new" {
			t.Errorf("expected new content, got %q", data)
		}

		second, err := WriteFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "new")
			return err
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Error("expected equal digests for equal content")
		}
	})

	t.Run("leaves nothing behind on failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		boom := errors.New("boom")
		_, err := WriteFile(filepath.Join(dir, "out.txt"), func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected empty directory, got %d entries", len(entries))
		}
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil })
		if err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
