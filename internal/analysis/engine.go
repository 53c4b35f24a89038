// Package analysis inspects a single entry of the browsed directory for the
// details line: size, modification time, content type and, for images,
// EXIF metadata.
package analysis

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"browsd/internal/errors"
	"browsd/internal/log"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

// DirectoryType is reported as the content type of directories.
const DirectoryType = "inode/directory"

// Details describes one inspected entry.
type Details struct {
	Path        string
	IsDir       bool
	Size        int64
	ModTime     time.Time
	ContentType string
	Metadata    map[string]string
}

// Summary renders the details on one line.
func (d *Details) Summary() string {
	parts := []string{d.ContentType}
	if !d.IsDir {
		parts = append(parts, humanize.Bytes(uint64(d.Size)))
	}
	parts = append(parts, "modified "+humanize.Time(d.ModTime))
	if model := d.Metadata["CameraModel"]; model != "" {
		parts = append(parts, model)
	}
	if taken := d.Metadata["DateTimeOriginal"]; taken != "" {
		parts = append(parts, "taken "+taken)
	}
	return strings.Join(parts, " · ")
}

// Analyzer adds type specific metadata
type Analyzer interface {
	// CanHandle checks if this analyzer is suitable for the given content type
	CanHandle(contentType string) bool
	// Analyze fills d.Metadata
	Analyze(path string, d *Details) error
}

// ImageAnalyzer reads EXIF data from images
type ImageAnalyzer struct{}

// CanHandle accepts image types that can carry EXIF
func (a *ImageAnalyzer) CanHandle(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/tiff" ||
		strings.HasPrefix(contentType, "image/x-")
}

// Analyze extracts EXIF metadata from image files
func (a *ImageAnalyzer) Analyze(path string, d *Details) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image file for exif: %w", err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		// no EXIF is not an error
		log.LogWithFields(log.F("path", path)).Debugf("no EXIF data: %v", err)
		return nil
	}

	if dt, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, _ := dt.StringVal(); s != "" {
			d.Metadata["DateTimeOriginal"] = s
		}
	}
	if model, err := x.Get(exif.Model); err == nil {
		if s, _ := model.StringVal(); s != "" {
			d.Metadata["CameraModel"] = strings.TrimSpace(s)
		}
	}
	return nil
}

var registerParsers sync.Once

// Engine inspects entries
type Engine struct {
	analyzers []Analyzer
}

// New creates an engine with the default analyzers registered
func New() *Engine {
	registerParsers.Do(func() { exif.RegisterParsers(mknote.All...) })
	e := &Engine{}
	e.Register(&ImageAnalyzer{})
	return e
}

// Register adds an analyzer. The first analyzer accepting a type wins.
func (e *Engine) Register(a Analyzer) {
	e.analyzers = append(e.analyzers, a)
}

// Inspect stats path and detects its content type. Analyzer failures are
// logged and the partial details returned.
func (e *Engine) Inspect(path string) (*Details, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("failed to stat file", path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("failed to stat file", path, errors.FileAccessDenied, err)
	}

	d := &Details{
		Path:     path,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Metadata: make(map[string]string),
	}
	if d.IsDir {
		d.ContentType = DirectoryType
		return d, nil
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.NewFileError("failed to read file", path, errors.FileOperationFailed, err)
	}
	// Parameters such as charset are noise on a details line.
	d.ContentType = strings.SplitN(mime.String(), ";", 2)[0]

	for _, a := range e.analyzers {
		if !a.CanHandle(d.ContentType) {
			continue
		}
		if err := a.Analyze(path, d); err != nil {
			log.LogWithFields(log.F("path", path), log.F("analyzer", fmt.Sprintf("%T", a)), log.F("error", err)).
				Warn("analyzer failed, returning partial details")
		}
		break
	}
	return d, nil
}
