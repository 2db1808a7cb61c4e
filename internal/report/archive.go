package report

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// WriteArchive writes md to w as a single zstd frame.
func WriteArchive(w io.Writer, md string) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	if _, err := io.WriteString(enc, md); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// ReadArchive reads a report written by WriteArchive.
func ReadArchive(r io.Reader) (string, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	b, err := io.ReadAll(dec)
	if err != nil {
		return "", fmt.Errorf("failed to read archive: %w", err)
	}
	return string(b), nil
}
