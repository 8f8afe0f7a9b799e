package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
)

// MissingVersion is recorded when a run's logs carry no version.
const MissingVersion = "None"

// VersionExtractor finds the deployed version in a run's log archive.
type VersionExtractor struct {
	logFileName string
	pattern     *regexp.Regexp
}

// NewVersionExtractor compiles pattern. The first capture group is the version.
func NewVersionExtractor(logFileName, pattern string) (*VersionExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid version pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("version pattern %q has no capture group", pattern)
	}
	return &VersionExtractor{logFileName: logFileName, pattern: re}, nil
}

// Extract returns the version found in the configured log file of the archive, or
// an empty string when the file or the pattern is absent.
func (e *VersionExtractor) Extract(archive []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("failed to open logs archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != e.logFileName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		if m := e.pattern.FindSubmatch(content); m != nil {
			return string(m[1]), nil
		}
		return "", nil
	}
	return "", nil
}

// FormatVersion renders a version for the history file.
func FormatVersion(version string) string {
	if version == "" {
		version = MissingVersion
	}
	return "v" + version
}
