package parser

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSource_Next(t *testing.T) {
	dir := t.TempDir()
	logFile := writeLog(t, dir, "job1.out", ` version: Marc 2014.0.0, Build 282796

 start of assembly   cycle number is 0
 wall time =       12.00
`)

	source := NewFileSource(logFile)
	defer source.Close()

	ctx := context.Background()
	var lines []*LogLine

	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		lines = append(lines, line)
	}

	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3 (blank line skipped)", len(lines))
	}
	if lines[1].LineNum != 3 {
		t.Errorf("LineNum = %d, want 3", lines[1].LineNum)
	}
	if lines[1].Index != 1 {
		t.Errorf("Index = %d, want 1", lines[1].Index)
	}
	if lines[0].Source != logFile {
		t.Errorf("Source = %q, want %q", lines[0].Source, logFile)
	}
}

func TestFileSource_WhitespaceOnlyLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	logFile := writeLog(t, dir, "job1.out", "first\n   \n\t\nsecond\n")

	lines, err := ReadAll(context.Background(), NewFileSource(logFile))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Got %d lines, want 2", len(lines))
	}
	if lines[1].Content != "second" || lines[1].Index != 1 {
		t.Errorf("lines[1] = %+v", lines[1])
	}
}

func TestFileSource_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "1job.out", "a1\na2\n")
	b := writeLog(t, dir, "2job.out", "b1\n")

	lines, err := ReadAll(context.Background(), NewFileSource(a, b))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3", len(lines))
	}
	if lines[2].Source != b || lines[2].LineNum != 1 || lines[2].Index != 2 {
		t.Errorf("lines[2] = %+v", lines[2])
	}
}

func TestReadAll_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	logFile := writeLog(t, dir, "empty.out", "")

	lines, err := ReadAll(context.Background(), NewFileSource(logFile))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Got %d lines, want 0", len(lines))
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource("/nonexistent/job.out")
	defer source.Close()

	_, err := source.Next(context.Background())
	if err == nil {
		t.Fatal("Next() expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestFileSource_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	logFile := writeLog(t, dir, "job.out", "line\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAll(ctx, NewFileSource(logFile))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadAll() error = %v, want context.Canceled", err)
	}
}
