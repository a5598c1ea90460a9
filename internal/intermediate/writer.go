package intermediate

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/freqdict/internal/model"
)

// entryPrefix starts every entry line.
const entryPrefix = " word="

// scoreSeparator separates the word from its score.
const scoreSeparator = ",f="

// ErrInvalidHeader is returned for a header that would not read back as
// a header: one spanning several lines or one looking like an entry.
var ErrInvalidHeader = errors.New("invalid intermediate header")

// checkHeader reports whether doc's header survives a round trip.
func checkHeader(doc *model.Document) error {
	if !doc.HasHeader {
		return nil
	}
	if strings.ContainsAny(doc.Header, "\r\n") {
		return fmt.Errorf("%w: contains a line break: %q", ErrInvalidHeader, doc.Header)
	}
	if strings.HasPrefix(doc.Header, entryPrefix) {
		return fmt.Errorf("%w: starts with %q: %q", ErrInvalidHeader, entryPrefix, doc.Header)
	}
	return nil
}

// Write renders doc to w and returns the number of bytes written.
// It fails with ErrInvalidHeader before writing anything if the header
// could not be read back.
func Write(w io.Writer, doc *model.Document) (int64, error) {
	if err := checkHeader(doc); err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	var written int64

	if doc.HasHeader {
		n, err := bw.WriteString(doc.Header + "\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	// Reused across lines; AppendInt avoids a fmt call per entry on
	// multi-million word corpora.
	line := make([]byte, 0, 64)
	for _, e := range doc.Entries {
		line = line[:0]
		line = append(line, entryPrefix...)
		line = append(line, e.Word...)
		line = append(line, scoreSeparator...)
		line = strconv.AppendInt(line, int64(e.Score), 10)
		line = append(line, '\n')

		n, err := bw.Write(line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, bw.Flush()
}

// WriteFile writes doc to path, creating parent directories and
// truncating any existing file. It returns the SHA3-256 hex digest of
// the written bytes.
func WriteFile(path string, doc *model.Document) (string, error) {
	if err := checkHeader(doc); err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Output path is user-provided
	if err != nil {
		return "", fmt.Errorf("failed to create intermediate file: %w", err)
	}

	hash := sha3.New256()
	if _, err := Write(io.MultiWriter(f, hash), doc); err != nil {
		_ = f.Close() //nolint:errcheck // The write error is more useful
		return "", fmt.Errorf("failed to write intermediate file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close intermediate file: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Checksum returns the SHA3-256 hex digest doc would have on disk.
func Checksum(doc *model.Document) (string, error) {
	hash := sha3.New256()
	if _, err := Write(hash, doc); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
