package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/xeipuuv/gojsonschema"

	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/safeio"
)

//go:embed schemas/file-list.schema.json
var fileListSchema []byte

// FileList is the generated listing of the image folder.
type FileList struct {
	Generated time.Time `json:"generated"`
	Count     int       `json:"count"`
	Files     []string  `json:"files"`
}

// NewFileList stamps names with the generation time.
func NewFileList(names []string, now time.Time) *FileList {
	files := make([]string, len(names))
	copy(files, names)
	return &FileList{Generated: now.UTC(), Count: len(files), Files: files}
}

// ReadFileList decodes and validates a file list. A count that disagrees
// with the files array is logged and corrected.
func ReadFileList(r io.Reader) (*FileList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}
	if err := validateFileList(data); err != nil {
		return nil, err
	}

	var fl FileList
	if err := json.Unmarshal(data, &fl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileList, err)
	}
	if fl.Count != len(fl.Files) {
		logger.Warn("File list count does not match its files",
			logger.Int("count", fl.Count), logger.Int("files", len(fl.Files)))
		fl.Count = len(fl.Files)
	}
	return &fl, nil
}

func validateFileList(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(fileListSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFileList, err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidFileList, strings.Join(errs, "; "))
	}
	return nil
}

// LoadFileList reads the file list at name on fsys.
func LoadFileList(fsys billy.Filesystem, name string) (*FileList, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	fl, err := ReadFileList(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return fl, nil
}

// Encode writes fl as two-space indented JSON with a trailing newline.
func (fl *FileList) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(fl)
}

// WriteFileList replaces name on fsys with fl.
func WriteFileList(fsys billy.Filesystem, name string, fl *FileList) error {
	var buf bytes.Buffer
	if err := fl.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode file list: %w", err)
	}
	return safeio.WriteFilePreservePerms(fsys, name, buf.Bytes())
}
