package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spigell/jd-matcher/internal/ai"
)

const suffix = "_report.json"

// Store keeps one JSON report per job description in a directory.
type Store struct {
	dir string
}

var _ ai.Recorder = (*Store)(nil)

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns where the report of jdID is stored: the file name without its extension plus "_report.json".
func (s *Store) Path(jdID string) string {
	base := filepath.Base(jdID)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.dir, base+suffix)
}

// Save overwrites the report of jdID with results and returns its path.
func (s *Store) Save(jdID string, results []ai.ComparisonResult) (string, error) {
	if strings.TrimSpace(jdID) == "" {
		return "", fmt.Errorf("job description id is required")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	if results == nil {
		results = []ai.ComparisonResult{}
	}

	path := s.Path(jdID)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	return path, nil
}

// Load reads the stored report of jdID.
func (s *Store) Load(jdID string) ([]ai.ComparisonResult, error) {
	return Read(s.Path(jdID))
}

// Read decodes a report file. An empty file is an empty report.
func Read(path string) ([]ai.ComparisonResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	results := []ai.ComparisonResult{}
	if stat.Size() == 0 {
		return results, nil
	}

	if err := json.NewDecoder(file).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return results, nil
}

// Entry is a stored report.
type Entry struct {
	Name     string
	Path     string
	Modified time.Time
}

// List returns stored reports sorted by name. A missing directory has no reports.
func (s *Store) List() ([]Entry, error) {
	items, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var entries []Entry
	for _, item := range items {
		if item.IsDir() || !strings.HasSuffix(item.Name(), suffix) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:     strings.TrimSuffix(item.Name(), suffix),
			Path:     filepath.Join(s.dir, item.Name()),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
