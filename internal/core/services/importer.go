package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medinex-cli/internal/logger"
)

// Ensure ImporterService implements the interface.
var _ driving.ImporterService = (*ImporterService)(nil)

// contentColumns are the column/key names recognised as document
// content, in preference order.
var contentColumns = []string{"content", "text", "body", "description", "information"}

// metadataPatterns extract common metadata lines from plain text.
var metadataPatterns = map[string]*regexp.Regexp{
	"author":   regexp.MustCompile(`(?i)(?:author|by)[:\s]+([^\n]+)`),
	"keywords": regexp.MustCompile(`(?i)(?:keywords|tags)[:\s]+([^\n]+)`),
}

// ImporterService ingests documents from local files into the
// knowledge base. Supported formats: plain text and markdown (one
// document per file), CSV (one document per row), and JSON (one
// document per object).
type ImporterService struct {
	knowledge driving.KnowledgeService
}

// NewImporterService creates a new importer service.
func NewImporterService(knowledge driving.KnowledgeService) *ImporterService {
	return &ImporterService{knowledge: knowledge}
}

// ImportDirectory imports every supported file under dir. Failures are
// collected per file; one bad file does not abort the run.
func (s *ImporterService) ImportDirectory(
	ctx context.Context, dir string, recursive bool,
) (*driving.ImportReport, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("import directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("import directory %s: not a directory: %w", dir, domain.ErrInvalidInput)
	}

	logger.Section("Directory Import")
	report := &driving.ImportReport{Errors: make(map[string]string)}

	walk := func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if !supportedExtension(path) {
			report.Skipped++
			return nil
		}

		ids, err := s.ImportFile(ctx, path)
		if err != nil {
			report.Failed++
			report.Errors[path] = err.Error()
			logger.Warn("Import failed for %s: %v", path, err)
			return nil
		}

		report.Imported += len(ids)
		report.DocumentIDs = append(report.DocumentIDs, ids...)
		return nil
	}

	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	logger.Info("Import complete: %d documents, %d failures, %d skipped",
		report.Imported, report.Failed, report.Skipped)
	return report, nil
}

// ImportFile imports a single file, dispatching on extension.
func (s *ImporterService) ImportFile(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return s.importText(ctx, path)
	case ".csv":
		return s.importCSV(ctx, path)
	case ".json":
		return s.importJSON(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported file type %s: %w", path, domain.ErrInvalidInput)
	}
}

// importText imports a plain text or markdown file as one document.
// The title is taken from the first markdown heading or the first
// non-empty line; author and keyword lines are recognised when present.
func (s *ImporterService) importText(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	meta := domain.DocumentMetadata{
		Source: "File Import: " + filepath.Base(path),
		Title:  extractTitle(text),
	}
	if m := metadataPatterns["author"].FindStringSubmatch(text); m != nil {
		meta.Author = strings.TrimSpace(m[1])
	}
	if m := metadataPatterns["keywords"].FindStringSubmatch(text); m != nil {
		meta.Keywords = splitList(m[1])
	}

	id, err := s.knowledge.AddDocument(ctx, text, meta, "")
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// importCSV imports each row of a CSV file as a separate document.
// The content column is picked by name; remaining columns become
// metadata, with well-known names mapped to typed fields.
func (s *ImporterService) importCSV(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv %s has no data rows: %w", path, domain.ErrInvalidInput)
	}

	header := records[0]
	contentIdx := findContentColumn(header)
	if contentIdx < 0 {
		return nil, fmt.Errorf("csv %s has no recognised content column: %w", path, domain.ErrInvalidInput)
	}

	var ids []string
	for _, row := range records[1:] {
		if contentIdx >= len(row) || strings.TrimSpace(row[contentIdx]) == "" {
			continue
		}

		meta := domain.DocumentMetadata{
			Source:       "CSV Import: " + filepath.Base(path),
			CustomFields: make(map[string]any),
		}
		for i, col := range header {
			if i == contentIdx || i >= len(row) || row[i] == "" {
				continue
			}
			applyMetadataField(&meta, col, row[i])
		}
		if len(meta.CustomFields) == 0 {
			meta.CustomFields = nil
		}

		id, err := s.knowledge.AddDocument(ctx, row[contentIdx], meta, "")
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// importJSON imports a JSON file holding either one object or an array
// of objects, one document per object.
func (s *ImporterService) importJSON(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var objects []map[string]any
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &objects); err != nil {
			return nil, fmt.Errorf("parse json %s: %w", path, err)
		}
	} else {
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("parse json %s: %w", path, err)
		}
		objects = append(objects, obj)
	}

	var ids []string
	for _, obj := range objects {
		text, contentKey := extractContent(obj)
		if text == "" {
			continue
		}

		meta := domain.DocumentMetadata{
			Source:       "JSON Import: " + filepath.Base(path),
			CustomFields: make(map[string]any),
		}
		for key, val := range obj {
			if key == contentKey {
				continue
			}
			if str, ok := val.(string); ok && str != "" {
				applyMetadataField(&meta, key, str)
			} else if val != nil {
				meta.CustomFields[key] = val
			}
		}
		if len(meta.CustomFields) == 0 {
			meta.CustomFields = nil
		}

		id, err := s.knowledge.AddDocument(ctx, text, meta, "")
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// supportedExtension reports whether the importer handles this file.
func supportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv", ".json":
		return true
	}
	return false
}

// findContentColumn returns the index of the first recognised content
// column name, or -1.
func findContentColumn(header []string) int {
	for _, candidate := range contentColumns {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), candidate) {
				return i
			}
		}
	}
	return -1
}

// extractContent picks the content value from a JSON object using the
// recognised key names. Returns the text and the key it came from.
func extractContent(obj map[string]any) (string, string) {
	for _, candidate := range contentColumns {
		for key, val := range obj {
			if !strings.EqualFold(key, candidate) {
				continue
			}
			if str, ok := val.(string); ok {
				return str, key
			}
		}
	}
	return "", ""
}

// applyMetadataField maps a named value onto the typed metadata,
// falling back to CustomFields for unrecognised names.
func applyMetadataField(meta *domain.DocumentMetadata, name, value string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title":
		meta.Title = value
	case "category":
		meta.Category = value
	case "author":
		meta.Author = value
	case "url":
		meta.URL = value
	case "keywords", "tags":
		meta.Keywords = splitList(value)
	case "source":
		meta.Source = value
	default:
		if meta.CustomFields == nil {
			meta.CustomFields = make(map[string]any)
		}
		meta.CustomFields[name] = value
	}
}

// extractTitle returns the first markdown heading or the first
// non-empty line of the text.
func extractTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}
		return line
	}
	return ""
}

// splitList splits a comma-separated list into trimmed items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
