package backend

import (
	"context"
	"net/http"
	"time"
)

// AuditEntry is one backend-owned audit record, fetched per document or
// globally. Read-only from the console's perspective.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason,omitempty"`
	Reference string    `json:"reference,omitempty"`
}

// FieldUpdate records a single field correction made during review.
type FieldUpdate struct {
	DocumentID string `json:"documentId"`
	FieldName  string `json:"fieldName"`
	OldValue   string `json:"oldValue"`
	NewValue   string `json:"newValue"`
	Reason     string `json:"reason"`
	UserID     string `json:"userId"`
}

// AuditHistory fetches the audit trail for one document.
func (c *Client) AuditHistory(ctx context.Context, documentID string) ([]AuditEntry, error) {
	var out []AuditEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/audit/history/"+documentID, nil, nil, &out, "audit-history"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []AuditEntry{}
	}
	return out, nil
}

// UpdateField records a field correction.
func (c *Client) UpdateField(ctx context.Context, update FieldUpdate) error {
	return c.doJSON(ctx, http.MethodPost, "/api/audit/update-field", nil, update, nil, "audit-update-field")
}

// ApproveDocument marks a document approved.
func (c *Client) ApproveDocument(ctx context.Context, documentID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/audit/approve/"+documentID, nil, nil, nil, "audit-approve")
}

// AuditLogs fetches the global audit log.
func (c *Client) AuditLogs(ctx context.Context) ([]AuditEntry, error) {
	var out []AuditEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/audit/logs", nil, nil, &out, "audit-logs"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []AuditEntry{}
	}
	return out, nil
}
