package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrDomainName is returned when a log name is not that of domain 1.
var ErrDomainName = errors.New("domain log name must start with the domain number 1")

// firstDomainStem returns the job stem shared by all domain logs. base must
// be the log of domain 1: only that leading "1" is removed, so a job name
// that starts with digits keeps them (13job.out is domain 1 of 3job.out).
func firstDomainStem(base string) (string, bool) {
	stem, ok := strings.CutPrefix(base, "1")
	if !ok || stem == "" {
		return "", false
	}
	return stem, true
}

// DomainFiles returns the per-domain log files of a parallel run, in domain order.
//
// Parallel runs write one log per domain, named with the domain number in
// front of a shared base name (1job1.out, 2job1.out, ...). path names the
// first of them. With domains <= 0 the run is a single log and path is
// returned as is.
func DomainFiles(path string, domains int) ([]string, error) {
	if domains <= 0 {
		return []string{path}, nil
	}

	dir, base := filepath.Split(path)
	stem, ok := firstDomainStem(base)
	if !ok {
		return nil, fmt.Errorf("%q: %w", base, ErrDomainName)
	}

	files := make([]string, 0, domains)
	for i := 1; i <= domains; i++ {
		files = append(files, filepath.Join(dir, strconv.Itoa(i)+stem))
	}
	return files, nil
}

// CountDomainFiles counts the consecutive per-domain logs that exist next to
// path, starting at domain 1. It returns 0 when path is not the log of
// domain 1 or does not exist.
func CountDomainFiles(path string) int {
	dir, base := filepath.Split(path)
	stem, ok := firstDomainStem(base)
	if !ok {
		return 0
	}

	n := 0
	for {
		candidate := filepath.Join(dir, strconv.Itoa(n+1)+stem)
		if _, err := os.Stat(candidate); err != nil {
			return n
		}
		n++
	}
}
