package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// Service exposes the product document to handlers
type Service struct {
	repo DocumentRepository
}

// NewService creates a new catalog service
func NewService(repo DocumentRepository) *Service {
	return &Service{
		repo: repo,
	}
}

// Document returns the raw document exactly as stored. The document is not
// validated here; consumers decide how to treat malformed content.
func (s *Service) Document(ctx context.Context) ([]byte, error) {
	return s.repo.Document(ctx)
}

// Products decodes the document into its product sequence
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	doc, err := s.repo.Document(ctx)
	if err != nil {
		return nil, err
	}

	var env models.Envelope
	if err := json.Unmarshal(doc, &env); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}
	return env.Data, nil
}
