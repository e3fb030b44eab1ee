package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Algorithm names the digest function used for all records.
const Algorithm = "SHA-256"

// recordFileMode matches artifact permissions used for distribution files.
const recordFileMode os.FileMode = 0o644

var (
	// ErrMismatch signals that an artifact's bytes differ from its record.
	// It is distinct from "record missing" so callers can tell tampering
	// from absence.
	ErrMismatch = errors.New("integrity mismatch")

	// errMalformedRecord is returned when a record line cannot be parsed.
	errMalformedRecord = errors.New("malformed checksum record")
)

// Record is one persisted digest line.
type Record struct {
	// Digest is the lowercase hex SHA-256 of the artifact.
	Digest string
	// FileName is the artifact's base file name.
	FileName string
}

// Line renders the record in the canonical `<digest>  <fileName>` format.
// The two-space separator is what shasum emits and consumes.
func (r Record) Line() string {
	return fmt.Sprintf("%s  %s\n", r.Digest, r.FileName)
}

// Compute returns the lowercase hex SHA-256 digest of the file at path.
func Compute(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}

	// Best-effort close, the file is read-only here.
	defer func() {
		_ = f.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// WriteRecord digests the artifact and writes its record to recordPath,
// overwriting any previous record. Re-running recomputes, never appends.
func WriteRecord(recordPath, artifactPath string) (*Record, error) {
	digest, err := Compute(artifactPath)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Digest:   digest,
		FileName: filepath.Base(artifactPath),
	}

	if err := os.WriteFile(filepath.Clean(recordPath), []byte(record.Line()), recordFileMode); err != nil {
		return nil, fmt.Errorf("write checksum record: %w", err)
	}

	return record, nil
}

// ReadRecord parses the record at path.
func ReadRecord(path string) (*Record, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read checksum record: %w", err)
	}

	fields := strings.Fields(strings.TrimSpace(string(contents)))
	if len(fields) != 2 {
		return nil, fmt.Errorf("%s: %w", path, errMalformedRecord)
	}

	digest := strings.ToLower(fields[0])
	if len(digest) != hex.EncodedLen(sha256.Size) {
		return nil, fmt.Errorf("%s: %w", path, errMalformedRecord)
	}

	if _, err := hex.DecodeString(digest); err != nil {
		return nil, fmt.Errorf("%s: %w", path, errMalformedRecord)
	}

	return &Record{Digest: digest, FileName: fields[1]}, nil
}

// Verify recomputes the artifact digest and compares it to the persisted
// record, returning ErrMismatch when the bytes have changed. On success it
// returns the confirmed digest.
func Verify(artifactPath, recordPath string) (string, error) {
	record, err := ReadRecord(recordPath)
	if err != nil {
		return "", err
	}

	digest, err := Compute(artifactPath)
	if err != nil {
		return "", err
	}

	if digest != record.Digest {
		return "", fmt.Errorf("%s: %w", filepath.Base(artifactPath), ErrMismatch)
	}

	return digest, nil
}
