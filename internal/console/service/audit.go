package service

import (
	"context"

	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/internal/extraction"
	"github.com/intellidoc/console-gateway/internal/session"
)

// FieldCorrection is a review-screen edit to one extracted field. Old and
// new values arrive as whatever shape the extraction produced.
type FieldCorrection struct {
	DocumentID string      `json:"documentId" validate:"required"`
	FieldName  string      `json:"fieldName" validate:"required"`
	OldValue   interface{} `json:"oldValue"`
	NewValue   interface{} `json:"newValue"`
	Reason     string      `json:"reason"`
}

// CorrectField records a field edit in the audit trail. Values are
// normalized to their display strings first; an edit whose normalized old
// and new values match is a no-op and never reaches the backend.
func (s *ConsoleService) CorrectField(ctx context.Context, correction FieldCorrection) error {
	oldValue := extraction.Stringify(correction.OldValue)
	newValue := extraction.Stringify(correction.NewValue)
	if oldValue == newValue {
		s.logger.Debug().
			Str("document_id", correction.DocumentID).
			Str("field_name", correction.FieldName).
			Msg("field correction skipped, value unchanged")
		return nil
	}

	update := backend.FieldUpdate{
		DocumentID: correction.DocumentID,
		FieldName:  correction.FieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
		Reason:     correction.Reason,
		UserID:     userIDFromContext(ctx),
	}
	return s.backend.UpdateField(ctx, update)
}

// ApproveDocument marks a document approved and returns the refreshed record.
func (s *ConsoleService) ApproveDocument(ctx context.Context, documentID string) (*backend.Document, error) {
	if err := s.backend.ApproveDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.backend.GetDocument(ctx, documentID)
}

// AuditHistory returns the audit trail for one document.
func (s *ConsoleService) AuditHistory(ctx context.Context, documentID string) ([]backend.AuditEntry, error) {
	return s.backend.AuditHistory(ctx, documentID)
}

// AuditLogs returns the global audit log.
func (s *ConsoleService) AuditLogs(ctx context.Context) ([]backend.AuditEntry, error) {
	return s.backend.AuditLogs(ctx)
}

func userIDFromContext(ctx context.Context) string {
	if sess, ok := session.FromContext(ctx); ok && sess.Profile != nil {
		return sess.Profile.UserID
	}
	return ""
}
