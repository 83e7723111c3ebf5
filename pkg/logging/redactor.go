package logging

import (
	"io"
	"os"
	"regexp"
	"strings"
)

// RedactingWriter is an io.Writer that redacts local paths before writing to
// an underlying writer.
type RedactingWriter struct {
	underlying   io.Writer
	replacements []replacement // applied in order, most specific first
}

type replacement struct {
	re   *regexp.Regexp
	repl string
}

// NewRedactingWriter creates a writer that hides downloadPath and the user's home directory.
func NewRedactingWriter(w io.Writer, downloadPath string) *RedactingWriter {
	rw := &RedactingWriter{underlying: w}
	rw.add(downloadPath, "[DOWNLOAD_PATH]")
	if home, err := os.UserHomeDir(); err == nil {
		rw.add(home, "[HOME]")
	}
	return rw
}

// add registers a literal path, matching either separator style.
func (rw *RedactingWriter) add(path, repl string) {
	path = strings.TrimRight(strings.ReplaceAll(path, `\`, "/"), "/")
	if path == "" {
		return
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	pattern := strings.Join(parts, `[/\\]`)
	rw.replacements = append(rw.replacements, replacement{re: regexp.MustCompile(pattern), repl: repl})
}

// Write redacts p and writes it to the underlying writer.
func (rw *RedactingWriter) Write(p []byte) (n int, err error) {
	message := string(p)
	for _, r := range rw.replacements {
		message = r.re.ReplaceAllString(message, r.repl)
	}
	if _, err := rw.underlying.Write([]byte(message)); err != nil {
		return 0, err
	}
	// Report the original length; callers only care that p was consumed.
	return len(p), nil
}

// Sync flushes the underlying writer when it supports it.
func (rw *RedactingWriter) Sync() error {
	if s, ok := rw.underlying.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}
