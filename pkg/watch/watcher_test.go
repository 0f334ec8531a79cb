package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcherHandlesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 16)
	watcher := New(dir, func(path string) error {
		handled <- filepath.Base(path)
		return nil
	}, WithLogger(quietLogger()))

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2013-10604.XML"), []byte("<RULE/>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case name := <-handled:
		if name != "2013-10604.XML" {
			t.Errorf("handled %q, want 2013-10604.XML", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no file handled within 5s")
	}
}

func TestWatcherContinuesAfterHandlerError(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 16)
	watcher := New(dir, func(path string) error {
		handled <- filepath.Base(path)
		return errors.New("unparseable notice")
	}, WithLogger(quietLogger()))

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer watcher.Stop()

	for _, name := range []string{"first.xml", "second.xml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<RULE/>"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		deadline := time.After(5 * time.Second)
	wait:
		for {
			select {
			case got := <-handled:
				if got == name {
					break wait
				}
			case <-deadline:
				t.Fatalf("%s not handled within 5s", name)
			}
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	watcher := New(filepath.Join(t.TempDir(), "absent"), func(string) error { return nil })
	if err := watcher.Start(); err == nil {
		watcher.Stop()
		t.Fatal("expected an error for a missing directory")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	watcher := New(t.TempDir(), func(string) error { return nil }, WithLogger(quietLogger()))

	go func() {
		finished <- watcher.Run(ctx)
	}()
	cancel()

	select {
	case err := <-finished:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMatches(t *testing.T) {
	testCases := []struct {
		extensions []string
		path       string
		want       bool
	}{
		{[]string{".xml"}, "notice.xml", true},
		{[]string{".xml"}, "notice.XML", true},
		{[]string{".xml"}, "notice.json", false},
		{[]string{".xml", ".json"}, "notice.json", true},
		{nil, "anything", true},
	}

	for _, testCase := range testCases {
		watcher := New(".", nil, WithExtensions(testCase.extensions...))
		if got := watcher.matches(testCase.path); got != testCase.want {
			t.Errorf("matches(%v, %q): got %v, want %v", testCase.extensions, testCase.path, got, testCase.want)
		}
	}
}
