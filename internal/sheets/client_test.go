package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{URL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(Config{URL: "  "})
	assert.Error(t, err)
}

func TestSubmit_Success(t *testing.T) {
	var received map[string]string
	var contentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.Write([]byte(`{"success": true, "message": "Saved", "responseId": "R-1001"}`))
	})

	resp, err := client.Submit(context.Background(), models.SubmissionRecord{"age": "25-30", "gender": "female"})
	require.NoError(t, err)

	assert.True(t, bool(resp.Success))
	assert.Equal(t, "R-1001", resp.ResponseID)
	assert.Equal(t, "25-30", received["age"])
	assert.Empty(t, contentType)
}

func TestSubmit_NumericDiscriminator(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": 1, "message": "ok", "responseId": "R-7"}`))
	})

	resp, err := client.Submit(context.Background(), models.SubmissionRecord{})
	require.NoError(t, err)
	assert.Equal(t, "R-7", resp.ResponseID)
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"failure discriminator", http.StatusOK, `{"success": false, "message": "sheet locked"}`, ErrRejected},
		{"zero discriminator", http.StatusOK, `{"success": 0, "message": "quota"}`, ErrRejected},
		{"html body", http.StatusOK, `<html>Sign in</html>`, ErrMalformedResponse},
		{"success without id", http.StatusOK, `{"success": true, "message": "ok"}`, ErrMalformedResponse},
		{"bad discriminator", http.StatusOK, `{"success": "maybe"}`, ErrMalformedResponse},
		{"server error", http.StatusInternalServerError, `{"success": true, "responseId": "x"}`, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Submit(context.Background(), models.SubmissionRecord{"age": "18-24"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := New(Config{URL: url})
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), models.SubmissionRecord{})
	assert.ErrorIs(t, err, ErrTransport)
}
