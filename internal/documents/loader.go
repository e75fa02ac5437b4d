package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Loader reads every supported document of a folder.
type Loader struct {
	logger     *zap.Logger
	extractors map[string]extractFunc
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		logger: logger,
		extractors: map[string]extractFunc{
			".txt":  extractTXT,
			".pdf":  extractPDF,
			".docx": extractDOCX,
		},
	}
}

// Supported reports whether the file extension has an extractor.
func (l *Loader) Supported(name string) bool {
	_, ok := l.extractors[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Load extracts the text of a single file.
func (l *Loader) Load(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := l.extractors[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file format: %q", ext)
	}

	return extract(path)
}

// LoadFolder loads the documents found directly in dir. A missing folder yields an empty set;
// unsupported, unreadable and empty files are logged and left out.
func (l *Loader) LoadFolder(dir string) Set {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("folder not found", zap.String("folder", dir))
		} else {
			l.logger.Warn("reading folder failed", zap.String("folder", dir), zap.Error(err))
		}
		return Set{}
	}

	docs := make(Set, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !l.Supported(name) {
			l.logger.Warn("skipping unsupported file", zap.String("folder", dir), zap.String("file", name))
			continue
		}

		content, err := l.Load(filepath.Join(dir, name))
		if err != nil {
			l.logger.Warn("loading document failed", zap.String("folder", dir), zap.String("file", name), zap.Error(err))
			continue
		}

		if content == "" {
			l.logger.Debug("skipping document without text", zap.String("folder", dir), zap.String("file", name))
			continue
		}

		docs = append(docs, Document{Name: name, Content: content})
	}

	l.logger.Info("documents loaded", zap.String("folder", dir), zap.Int("count", docs.Len()))

	return docs
}
