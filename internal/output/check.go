package output

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/ovirt-dr/generate-vars/internal/errors"
	"github.com/ovirt-dr/generate-vars/internal/log"
)

// Artifact describes a produced mapping file.
type Artifact struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	BLAKE3 string `json:"blake3"`
}

// Check confirms that the automation run left a file at path. The file's
// content is not inspected beyond its digest.
func Check(path string, logger *log.Logger) (*Artifact, error) {
	if logger == nil {
		logger = log.Discard()
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		missing := errors.NewOutputMissingError(path)
		logger.LogError("output file missing", missing)
		return nil, missing
	}

	digest, err := digestFile(path)
	if err != nil {
		// the file exists; an unreadable digest is not a failed run
		logger.Warn("could not hash output file", "path", path, "error", err.Error())
	}

	artifact := &Artifact{Path: path, Size: info.Size(), BLAKE3: digest}
	logger.Info("Var file location", "path", path, "size", artifact.Size, "blake3", digest)
	return artifact, nil
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
