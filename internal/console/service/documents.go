package service

import (
	"context"
	"io"
	"sync"

	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/internal/extraction"
	"github.com/intellidoc/console-gateway/pkg/errors"
)

// ReviewBundle is everything the review screen needs for one document:
// the record itself, the normalized extraction, and a preview URL.
type ReviewBundle struct {
	Document   *backend.Document `json:"document"`
	Extraction extraction.Result `json:"extraction"`
	PreviewURL string            `json:"previewUrl"`
}

// Upload forwards a file to the backend.
func (s *ConsoleService) Upload(ctx context.Context, fileName string, content io.Reader) (*backend.UploadResponse, error) {
	resp, err := s.backend.Upload(ctx, fileName, content)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("file_name", fileName).Str("document_id", resp.DocumentID).Msg("document uploaded")
	return resp, nil
}

// ListDocuments returns the caller's documents.
func (s *ConsoleService) ListDocuments(ctx context.Context) ([]backend.Document, error) {
	return s.backend.MyDocuments(ctx)
}

// GetDocument returns one document record.
func (s *ConsoleService) GetDocument(ctx context.Context, id string) (*backend.Document, error) {
	return s.backend.GetDocument(ctx, id)
}

// GetReviewBundle assembles the review screen data. The extraction and the
// preview URL are fetched concurrently and fail independently: a missing
// extraction falls back to the in-progress placeholder, a missing preview
// leaves the URL empty. Only losing both is an error.
func (s *ConsoleService) GetReviewBundle(ctx context.Context, id string) (*ReviewBundle, error) {
	doc, err := s.backend.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		envelope *extraction.Envelope
		envErr   error
		preview  string
		urlErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		envelope, envErr = s.backend.Extraction(ctx, id)
	}()
	go func() {
		defer wg.Done()
		preview, urlErr = s.backend.DownloadURL(ctx, id)
	}()
	wg.Wait()

	if envErr != nil && urlErr != nil {
		s.logger.Error().
			Err(envErr).
			AnErr("preview_error", urlErr).
			Str("document_id", id).
			Msg("review bundle unavailable")
		return nil, errors.Wrap(envErr, "REVIEW_UNAVAILABLE", "document review data is unavailable", 502)
	}

	bundle := &ReviewBundle{Document: doc, PreviewURL: preview}
	if envErr != nil {
		s.logger.Warn().Err(envErr).Str("document_id", id).Msg("extraction fetch failed, using placeholder")
		bundle.Extraction = extraction.Sentinel()
	} else {
		bundle.Extraction = extraction.Normalize(envelope)
	}
	if urlErr != nil {
		s.logger.Warn().Err(urlErr).Str("document_id", id).Msg("preview url fetch failed")
	}

	return bundle, nil
}

// DownloadURL fetches a preview URL for a document.
func (s *ConsoleService) DownloadURL(ctx context.Context, id string) (string, error) {
	return s.backend.DownloadURL(ctx, id)
}

// NormalizedExtraction fetches and normalizes the extraction for one
// document. Unlike the review bundle, a missing extraction is an error here:
// there is nothing useful to export from a placeholder.
func (s *ConsoleService) NormalizedExtraction(ctx context.Context, id string) (extraction.Result, error) {
	envelope, err := s.backend.Extraction(ctx, id)
	if err != nil {
		return extraction.Result{}, err
	}
	return extraction.Normalize(envelope), nil
}

// ExportDocument returns the backend's spreadsheet export for one document.
func (s *ConsoleService) ExportDocument(ctx context.Context, id string) (*backend.Blob, error) {
	return s.backend.ExportDocument(ctx, id)
}

// ExportBatch returns one spreadsheet covering the given documents.
func (s *ConsoleService) ExportBatch(ctx context.Context, ids []string) (*backend.Blob, error) {
	if len(ids) == 0 {
		return nil, errors.BadRequest("no documents selected for export")
	}
	return s.backend.ExportBatch(ctx, ids)
}

// Search runs a full-text query.
func (s *ConsoleService) Search(ctx context.Context, query string) ([]backend.SearchResult, error) {
	if query == "" {
		return []backend.SearchResult{}, nil
	}
	return s.backend.Search(ctx, query)
}

// DashboardStats returns the aggregate dashboard figures.
func (s *ConsoleService) DashboardStats(ctx context.Context) (*backend.AnalyticsData, error) {
	return s.backend.DashboardStats(ctx)
}
