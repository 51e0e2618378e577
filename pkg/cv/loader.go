package cv

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Loader supplies the candidate's CV text.
type Loader interface {
	Load(path string) (text string, err error)
}

// FileLoader reads a plain-text CV from disk.
type FileLoader struct{}

// Load reads the CV at path.
func (FileLoader) Load(path string) (text string, err error) {
	text, err = Load(path)
	return text, err
}

// Load reads the CV text from a file. A leading byte-order mark is dropped; otherwise the
// contents are returned as-is.
func Load(path string) (text string, err error) {
	// Read file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("CV file not found: %s (set cv_path or CV_PATH)", path)
			return text, err
		}
		err = errors.Wrapf(err, "failed to read CV file: %s", path)
		return text, err
	}

	if !utf8.Valid(data) {
		err = errors.Errorf("CV file is not valid UTF-8: %s", path)
		return text, err
	}

	text = strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(text) == "" {
		err = errors.Errorf("CV file is empty: %s", path)
		return text, err
	}

	return text, err
}
