package cli

import (
	"io"
	"os"

	apperrors "github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/errors"
)

// =============================================================================
// Input / Output Helpers
// =============================================================================

// readSource reads diagram text from path, or from stdin when path is "-"
// or empty.
func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return string(data), nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// writeArtifact writes data to path, or stdout when path is empty.
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
