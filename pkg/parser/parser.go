package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSource implements LineSource for reading one or more log files in order.
// Multiple files are read back to back, producing one logical log.
type FileSource struct {
	files []string

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
	index          int
}

// NewFileSource creates a LineSource that reads from the given files.
func NewFileSource(files ...string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next non-blank line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			line := s.currentScanner.Text()

			if strings.TrimSpace(line) == "" {
				continue
			}

			ll := &LogLine{
				Content: line,
				Source:  s.currentSource,
				LineNum: s.currentLine,
				Index:   s.index,
			}
			s.index++
			return ll, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
		s.currentScanner = nil
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}

// ReadAll drains a source into an ordered line buffer.
// An empty source yields an empty slice and no error; callers decide
// whether that is fatal.
func ReadAll(ctx context.Context, src LineSource) ([]LogLine, error) {
	var lines []LogLine
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
}
