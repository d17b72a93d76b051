package driving

import "context"

// ImporterService ingests documents from local files.
type ImporterService interface {
	// ImportDirectory imports every supported file (.txt, .md, .json,
	// .csv) under dir. One bad file does not abort the run; failures
	// are collected in the report.
	ImportDirectory(ctx context.Context, dir string, recursive bool) (*ImportReport, error)

	// ImportFile imports a single file, dispatching on extension.
	// Returns the IDs of the documents created.
	ImportFile(ctx context.Context, path string) ([]string, error)
}

// ImportReport summarises an import run.
type ImportReport struct {
	// Imported is the number of documents created.
	Imported int `json:"imported"`

	// Failed is the number of files that could not be imported.
	Failed int `json:"failed"`

	// Skipped is the number of files with unsupported extensions.
	Skipped int `json:"skipped"`

	// Errors maps failed file paths to their error messages.
	Errors map[string]string `json:"errors,omitempty"`

	// DocumentIDs lists the created documents.
	DocumentIDs []string `json:"document_ids"`
}
