package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/internal/session"
	"github.com/intellidoc/console-gateway/pkg/config"
	"github.com/intellidoc/console-gateway/pkg/errors"
	"github.com/intellidoc/console-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.Handler) *service.ConsoleService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}
	log := logger.New("test", "test")
	client := backend.NewClient(cfg, log, nil)
	return service.NewConsoleService(client, log)
}

func documentJSON(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":               id,
		"originalFileName": "invoice.pdf",
		"status":           0,
		"uploadedAt":       time.Now().UTC().Format(time.RFC3339),
		"uploadedBy":       "u-1",
	}
}

func TestGetReviewBundle_AllPartsPresent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(documentJSON("doc-1"))
	})
	mux.HandleFunc("/api/extraction/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonData": map[string]interface{}{
				"DocumentType": "Invoice",
				"Fields":       map[string]interface{}{"Vendor": "Acme"},
			},
		})
	})
	mux.HandleFunc("/api/documents/doc-1/download-url", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": "https://files.example.com/doc-1"})
	})

	svc := newTestService(t, mux)

	bundle, err := svc.GetReviewBundle(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", bundle.Document.ID)
	assert.Equal(t, "Invoice", bundle.Extraction.DocumentType)
	assert.Equal(t, "Acme", bundle.Extraction.Fields["Vendor"])
	assert.Equal(t, "https://files.example.com/doc-1", bundle.PreviewURL)
}

func TestGetReviewBundle_ExtractionFailureFallsBackToPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(documentJSON("doc-1"))
	})
	mux.HandleFunc("/api/extraction/doc-1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "extraction pending", http.StatusNotFound)
	})
	mux.HandleFunc("/api/documents/doc-1/download-url", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": "https://files.example.com/doc-1"})
	})

	svc := newTestService(t, mux)

	bundle, err := svc.GetReviewBundle(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "Processing...", bundle.Extraction.DocumentType)
	assert.Equal(t, "https://files.example.com/doc-1", bundle.PreviewURL)
}

func TestGetReviewBundle_PreviewFailureLeavesURLEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(documentJSON("doc-1"))
	})
	mux.HandleFunc("/api/extraction/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonData": map[string]interface{}{"DocumentType": "Receipt"},
		})
	})
	mux.HandleFunc("/api/documents/doc-1/download-url", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	})

	svc := newTestService(t, mux)

	bundle, err := svc.GetReviewBundle(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "Receipt", bundle.Extraction.DocumentType)
	assert.Empty(t, bundle.PreviewURL)
}

func TestGetReviewBundle_BothSidecarsFailing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(documentJSON("doc-1"))
	})
	mux.HandleFunc("/api/extraction/doc-1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/documents/doc-1/download-url", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	svc := newTestService(t, mux)

	_, err := svc.GetReviewBundle(context.Background(), "doc-1")
	require.Error(t, err)
}

func TestGetReviewBundle_MissingDocument(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := svc.GetReviewBundle(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCorrectField_SkipsUnchangedValue(t *testing.T) {
	var calls int32
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	tests := []struct {
		name     string
		oldValue interface{}
		newValue interface{}
	}{
		{"identical strings", "Acme Corp", "Acme Corp"},
		{"array joins to same string", []interface{}{"a", "b"}, "a, b"},
		{"number formats to same string", float64(42), "42"},
		{"both empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CorrectField(context.Background(), service.FieldCorrection{
				DocumentID: "doc-1",
				FieldName:  "Vendor",
				OldValue:   tt.oldValue,
				NewValue:   tt.newValue,
			})
			require.NoError(t, err)
		})
	}

	assert.Zero(t, atomic.LoadInt32(&calls), "unchanged corrections must not reach the backend")
}

func TestCorrectField_SendsNormalizedValuesAndUserID(t *testing.T) {
	var got backend.FieldUpdate
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/audit/update-field", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))

	ctx := session.WithSession(context.Background(), &session.Session{
		Token:   "tok",
		Profile: &session.Profile{UserID: "u-42"},
	})

	err := svc.CorrectField(ctx, service.FieldCorrection{
		DocumentID: "doc-1",
		FieldName:  "Total",
		OldValue:   []interface{}{"100", "200"},
		NewValue:   "300",
		Reason:     "typo",
	})
	require.NoError(t, err)

	assert.Equal(t, "100, 200", got.OldValue)
	assert.Equal(t, "300", got.NewValue)
	assert.Equal(t, "u-42", got.UserID)
	assert.Equal(t, "typo", got.Reason)
}

func TestApproveDocument_ReturnsRefreshedRecord(t *testing.T) {
	var approved int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/audit/approve/doc-1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&approved, 1)
	})
	mux.HandleFunc("/api/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		doc := documentJSON("doc-1")
		doc["status"] = 2
		json.NewEncoder(w).Encode(doc)
	})

	svc := newTestService(t, mux)

	doc, err := svc.ApproveDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&approved))
	assert.Equal(t, backend.StatusApproved, doc.Status)
}

func TestTestWebhook_RejectsUnsavedChanges(t *testing.T) {
	var testCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/settings/webhook", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.WebhookConfig{
			EndpointURL: "https://hooks.example.com/saved",
			IsActive:    true,
		})
	})
	mux.HandleFunc("/api/settings/webhook/test", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&testCalls, 1)
	})

	svc := newTestService(t, mux)

	err := svc.TestWebhook(context.Background(), service.WebhookSettings{
		EndpointURL: "https://hooks.example.com/edited",
		IsActive:    true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
	assert.Zero(t, atomic.LoadInt32(&testCalls))
}

func TestTestWebhook_SendsWhenSettingsMatch(t *testing.T) {
	var testCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/settings/webhook", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.WebhookConfig{
			EndpointURL: "https://hooks.example.com/saved",
			IsActive:    true,
		})
	})
	mux.HandleFunc("/api/settings/webhook/test", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&testCalls, 1)
	})

	svc := newTestService(t, mux)

	err := svc.TestWebhook(context.Background(), service.WebhookSettings{
		EndpointURL: "https://hooks.example.com/saved",
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&testCalls))
}

func TestExportBatch_RejectsEmptySelection(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called for an empty selection")
	}))

	_, err := svc.ExportBatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestLogin_DecodesProfileFromToken(t *testing.T) {
	token := buildLoginToken(t, map[string]interface{}{
		"sub":   "u-7",
		"name":  "Jane Doe",
		"email": "jane@example.com",
	})

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": token, "userId": "u-7"})
	}))

	result, err := svc.Login(context.Background(), service.LoginRequest{Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "u-7", result.Profile.UserID)
	assert.Equal(t, "Jane Doe", result.Profile.FullName)
}

func buildLoginToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestLogin_OpaqueTokenStillLogsIn(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "not-a-jwt"})
	}))

	result, err := svc.Login(context.Background(), service.LoginRequest{Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "not-a-jwt", result.Token)
	assert.Nil(t, result.Profile)
}
