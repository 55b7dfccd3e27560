package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
)

var (
	ErrDocumentNotFound = errors.New("catalog document not found")
)

//go:embed products.json
var defaultDocument []byte

// DocumentRepository defines access to the raw product document
type DocumentRepository interface {
	Document(ctx context.Context) ([]byte, error)
}

// EmbeddedRepository serves the product document compiled into the binary
type EmbeddedRepository struct {
	doc []byte
}

// NewEmbeddedRepository creates a repository backed by the embedded seed document
func NewEmbeddedRepository() *EmbeddedRepository {
	return &EmbeddedRepository{doc: defaultDocument}
}

// NewStaticRepository creates a repository that always serves doc.
// Used by tests to stand in for arbitrary, possibly malformed documents.
func NewStaticRepository(doc []byte) *EmbeddedRepository {
	return &EmbeddedRepository{doc: doc}
}

// Document returns the raw document bytes
func (r *EmbeddedRepository) Document(ctx context.Context) ([]byte, error) {
	return r.doc, nil
}

// FileRepository reads the product document from disk on every call so
// edits to the file are visible without a restart
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository reading the document at path
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Document reads the file at the configured path
func (r *FileRepository) Document(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// NewRepository picks the file repository when path is set and the
// embedded one otherwise
func NewRepository(path string) DocumentRepository {
	if path == "" {
		return NewEmbeddedRepository()
	}
	return NewFileRepository(path)
}
