package shell

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/safechain-dev/safe-chain/internal/platform"
)

// lineBreak splits a startup file into lines. U+2028 and U+2029 are
// deliberately not line breaks here: a line holding one is kept whole and,
// by the guard in removable, never removed.
var lineBreak = regexp.MustCompile("\r\n|\n|\r")

// defaultEOL is used for files that contain no line break yet.
var defaultEOL = platform.LineEnding(runtime.GOOS)

// detectEOL returns the line ending already used by content, falling back
// to the platform default.
func detectEOL(content string) string {
	switch {
	case strings.Contains(content, "\r\n"):
		return "\r\n"
	case strings.Contains(content, "\n"):
		return "\n"
	case strings.Contains(content, "\r"):
		return "\r"
	default:
		return defaultEOL
	}
}

// AppendLine appends line to the file at path, creating the file and its
// parent directories when absent. When eol is empty the file's own line
// ending is used. The file is rewritten in place so symlinks and
// permissions survive. Callers remove stale copies first; AppendLine does
// not deduplicate.
func AppendLine(path, line, eol string) error {
	content, err := readOrCreate(path)
	if err != nil {
		return err
	}

	if eol == "" {
		eol = detectEOL(content)
	}

	var b strings.Builder
	b.Grow(len(content) + len(line) + 2*len(eol))
	b.WriteString(content)
	if content != "" && !endsWithLineBreak(content) {
		b.WriteString(eol)
	}
	b.WriteString(line)
	b.WriteString(eol)

	return writeInPlace(path, b.String())
}

// RemoveLinesMatching deletes the lines of the file at path that match
// pattern and look like a generated hook (see removable), together with
// their line break. Surviving lines keep their own line break, or get eol
// when it is set. A missing file is left missing, and the file is only
// rewritten when a line was removed.
func RemoveLinesMatching(path string, pattern *regexp.Regexp, eol string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &FileError{Path: path, Message: "failed to read file", Cause: err}
	}

	var b strings.Builder
	b.Grow(len(data))
	removed := 0
	for _, l := range splitLines(string(data)) {
		if removable(l.text, pattern) {
			removed++
			continue
		}
		b.WriteString(l.text)
		if l.eol != "" && eol != "" {
			b.WriteString(eol)
		} else {
			b.WriteString(l.eol)
		}
	}

	if removed == 0 {
		return nil
	}
	return writeInPlace(path, b.String())
}

// rcLine is one line of a startup file and the break that ended it; eol is
// empty for an unterminated last line.
type rcLine struct {
	text string
	eol  string
}

// splitLines cuts content at every line break, keeping each break with
// its line. A terminated last line yields no trailing empty entry.
func splitLines(content string) []rcLine {
	var lines []rcLine
	start := 0
	for _, loc := range lineBreak.FindAllStringIndex(content, -1) {
		lines = append(lines, rcLine{text: content[start:loc[0]], eol: content[loc[0]:loc[1]]})
		start = loc[1]
	}
	if start < len(content) {
		lines = append(lines, rcLine{text: content[start:]})
	}
	return lines
}

func endsWithLineBreak(content string) bool {
	return strings.HasSuffix(content, "\n") || strings.HasSuffix(content, "\r")
}

// removable reports whether line may be deleted. It must match pattern,
// be no longer than MaxHookLineLength runes and hold no line or paragraph
// separator. Anything else was not written by safe-chain.
func removable(line string, pattern *regexp.Regexp) bool {
	if !pattern.MatchString(line) {
		return false
	}
	if utf8.RuneCountInString(line) > MaxHookLineLength {
		return false
	}
	return !strings.ContainsAny(line, "\n\r\u2028\u2029")
}

func readOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", &FileError{Path: path, Message: "failed to read file", Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &FileError{Path: path, Message: "failed to create parent directory", Cause: err}
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return "", &FileError{Path: path, Message: "failed to create file", Cause: err}
	}
	return "", nil
}

func writeInPlace(path, content string) error {
	//nolint:gosec // G306: startup files are user-owned and keep their existing mode
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &FileError{Path: path, Message: "failed to write file", Cause: err}
	}
	return nil
}
