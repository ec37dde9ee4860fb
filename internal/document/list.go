package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// List returns the .docx files directly inside dir, sorted by name.
// Word lock files (~$name.docx) are skipped.
func List(dir string) ([]string, error) {
	metadata := map[string]string{"Path": dir}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeNotFound, fmt.Sprintf("directory %s not found", dir), metadata, err)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, fmt.Sprintf("%s is not a directory", dir), metadata)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".docx") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, fmt.Sprintf("no documents in %s", dir), metadata)
	}
	return paths, nil
}
