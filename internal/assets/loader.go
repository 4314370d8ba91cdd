package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/model"
)

var (
	// ErrUnavailable means at least one artifact file is missing.
	ErrUnavailable = errors.New("model assets unavailable")
	// ErrCorrupt means the artifacts exist but cannot be decoded or do not agree with each other.
	ErrCorrupt = errors.New("model assets corrupt")
)

// Default artifact file names.
const (
	DefaultModelFile   = "KNN_heart.json"
	DefaultScalerFile  = "scaler.json"
	DefaultColumnsFile = "columns.json"
)

// Status values reported by Loader.Status.
const (
	StatusPending     = "pending"
	StatusLoaded      = "loaded"
	StatusUnavailable = "unavailable"
	StatusCorrupt     = "corrupt"
)

// Files locates the three artifacts.
type Files struct {
	Model   string
	Scaler  string
	Columns string
}

// DefaultFiles returns the default artifact paths inside dir.
func DefaultFiles(dir string) Files {
	return Files{
		Model:   filepath.Join(dir, DefaultModelFile),
		Scaler:  filepath.Join(dir, DefaultScalerFile),
		Columns: filepath.Join(dir, DefaultColumnsFile),
	}
}

func (f Files) paths() []string {
	return []string{f.Model, f.Scaler, f.Columns}
}

// Bundle is the loaded, cross-checked set of artifacts. It is read-only.
type Bundle struct {
	Classifier model.Classifier
	Scaler     model.Scaler
	Columns    []string
	Schema     *features.Schema
	Encoder    *features.Encoder
	LoadedAt   time.Time
}

// Loader reads the artifacts once and caches the outcome, success or failure,
// for the life of the process.
type Loader struct {
	files  Files
	logger *slog.Logger

	once   sync.Once
	bundle *Bundle
	err    error
	done   chan struct{}
}

// NewLoader creates a loader. A nil logger uses slog.Default().
func NewLoader(files Files, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{files: files, logger: logger, done: make(chan struct{})}
}

// Files returns the configured artifact paths.
func (l *Loader) Files() Files {
	return l.files
}

// Load returns the cached bundle, reading the artifacts on first use.
func (l *Loader) Load() (*Bundle, error) {
	l.once.Do(func() {
		start := time.Now()
		l.bundle, l.err = load(l.files)
		if l.err != nil {
			l.logger.Error("Failed to load model assets",
				"error", l.err,
				"model", l.files.Model,
				"scaler", l.files.Scaler,
				"columns", l.files.Columns,
			)
		} else {
			l.logger.Info("Model assets loaded",
				"columns", len(l.bundle.Columns),
				"classes", l.bundle.Classifier.Classes(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
		close(l.done)
	})
	return l.bundle, l.err
}

// Status reports the load state and, on failure, the reason.
func (l *Loader) Status() (string, error) {
	select {
	case <-l.done:
	default:
		return StatusPending, nil
	}

	switch {
	case l.err == nil:
		return StatusLoaded, nil
	case errors.Is(l.err, ErrUnavailable):
		return StatusUnavailable, l.err
	default:
		return StatusCorrupt, l.err
	}
}

func load(files Files) (*Bundle, error) {
	var missing []string
	for _, p := range files.paths() {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, p)
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, p, err)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrUnavailable, strings.Join(missing, ", "))
	}

	clf, err := model.LoadClassifier(files.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, files.Model, err)
	}

	scaler, err := model.LoadScaler(files.Scaler)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, files.Scaler, err)
	}

	columns, err := loadColumns(files.Columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, files.Columns, err)
	}

	schema, err := features.NewSchema(columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, files.Columns, err)
	}

	if err := crossCheck(clf, scaler, columns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return &Bundle{
		Classifier: clf,
		Scaler:     scaler,
		Columns:    columns,
		Schema:     schema,
		Encoder:    features.NewEncoder(schema),
		LoadedAt:   time.Now(),
	}, nil
}

func loadColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	return columns, nil
}

func crossCheck(clf model.Classifier, scaler model.Scaler, columns []string) error {
	if scaler.NumFeatures() != len(columns) {
		return fmt.Errorf("scaler expects %d features, columns list %d", scaler.NumFeatures(), len(columns))
	}
	if clf.NumFeatures() != len(columns) {
		return fmt.Errorf("classifier expects %d features, columns list %d", clf.NumFeatures(), len(columns))
	}
	if names := scaler.FeatureNames(); names != nil {
		for i := range names {
			if names[i] != columns[i] {
				return fmt.Errorf("scaler feature %d is %q, columns list %q", i, names[i], columns[i])
			}
		}
	}
	classes := clf.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		return fmt.Errorf("classifier classes must be [0 1], got %v", classes)
	}
	return nil
}
