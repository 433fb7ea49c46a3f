package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	bulletMarks = []string{"- ", "* ", "• ", "· "}
)

// ErrUnsupportedFormat is returned for resume files that are not plain text.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// resumeExtensions are the file types ReadResume accepts.
var resumeExtensions = map[string]bool{".txt": true, ".md": true, ".markdown": true, "": true}

// CleanText normalizes line endings and whitespace while keeping headings,
// bullets and paragraph breaks. At most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace. Bullet lines keep their indentation.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	content := innerSpace.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) {
		if indent := len(line) - len(trimmed); indent > 0 {
			return strings.Repeat(" ", indent) + content
		}
	}
	return content
}

func isBulletLine(line string) bool {
	for _, mark := range bulletMarks {
		if strings.HasPrefix(line, mark) {
			return true
		}
	}
	return false
}

// ReadText reads a text file and returns its cleaned content.
func ReadText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return CleanText(string(content)), nil
}

// ReadResume reads a plain text or Markdown resume for analysis.
func ReadResume(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !resumeExtensions[ext] {
		return "", fmt.Errorf("%w: %s (use .txt or .md)", ErrUnsupportedFormat, ext)
	}

	text, err := ReadText(path)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("resume %s is empty", path)
	}
	return text, nil
}
