package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/intellidoc/console-gateway/internal/extraction"
)

// DocumentStatus mirrors the backend's numeric status enum.
type DocumentStatus int

const (
	StatusUploaded DocumentStatus = iota
	StatusProcessing
	StatusApproved
	StatusError
)

func (s DocumentStatus) String() string {
	switch s {
	case StatusUploaded:
		return "Uploaded"
	case StatusProcessing:
		return "Processing"
	case StatusApproved:
		return "Approved"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Document is a backend-owned document record. Status transitions happen on
// the backend; the console only displays and refetches them.
type Document struct {
	ID               string         `json:"id"`
	OriginalFileName string         `json:"originalFileName"`
	Status           DocumentStatus `json:"status"`
	UploadedAt       time.Time      `json:"uploadedAt"`
	UploadedBy       string         `json:"uploadedBy"`
	StoragePath      string         `json:"storagePath,omitempty"`
}

// UploadResponse is returned after a successful document upload.
type UploadResponse struct {
	DocumentID string `json:"documentId"`
}

// Upload sends a single file as multipart form data under the field name
// "file" - the only field name the backend accepts.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) (*UploadResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/documents", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req, "upload")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp, "upload")
	}

	var out UploadResponse
	if err := decodeOptionalJSON(resp.Body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// MyDocuments lists the caller's documents.
func (c *Client) MyDocuments(ctx context.Context) ([]Document, error) {
	var out []Document
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents/mine", nil, nil, &out, "documents"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Document{}
	}
	return out, nil
}

// GetDocument fetches a single document record.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var out Document
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents/"+id, nil, nil, &out, "document-detail"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadURL fetches a presigned preview URL for a document.
func (c *Client) DownloadURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents/"+id+"/download-url", nil, nil, &out, "download-url"); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Extraction fetches the raw extraction envelope for a document. Callers
// normalize it with the extraction package; the envelope itself is loosely
// typed by design.
func (c *Client) Extraction(ctx context.Context, id string) (*extraction.Envelope, error) {
	var out extraction.Envelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/extraction/"+id, nil, nil, &out, "extraction"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportDocument fetches the backend's spreadsheet export for one document.
func (c *Client) ExportDocument(ctx context.Context, id string) (*Blob, error) {
	return c.doBlob(ctx, http.MethodGet, "/api/extraction/"+id+"/export", nil, "export")
}

// ExportBatch fetches one spreadsheet covering the given documents. The id
// list travels as a bare JSON array.
func (c *Client) ExportBatch(ctx context.Context, documentIDs []string) (*Blob, error) {
	return c.doBlob(ctx, http.MethodPost, "/api/extraction/export-batch", documentIDs, "export-batch")
}

// AnalyticsData carries the aggregate dashboard figures computed by the backend.
type AnalyticsData struct {
	TotalDocuments int             `json:"totalDocuments"`
	TotalSpend     float64         `json:"totalSpend"`
	MonthlyTrend   []MonthlyAmount `json:"monthlyTrend"`
	TopVendors     []VendorAmount  `json:"topVendors"`
}

type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type VendorAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// DashboardStats fetches the aggregate dashboard statistics.
func (c *Client) DashboardStats(ctx context.Context) (*AnalyticsData, error) {
	var out AnalyticsData
	if err := c.doJSON(ctx, http.MethodGet, "/api/analytics/dashboard", nil, nil, &out, "analytics"); err != nil {
		return nil, err
	}
	return &out, nil
}
