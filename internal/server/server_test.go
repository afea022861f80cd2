package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/digital-invoice/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(config *server.Config) http.Handler {
	if config == nil {
		config = &server.Config{Address: ":0"}
	}
	return server.NewServer(config).Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

const samplePayload = `{
	"fields": {"amountToPay": "100.00EUR", "amountsAreConsistent": "true"},
	"lineItems": [
		{"name": "Shirt", "quantity": "1", "price": "50.00EUR"},
		{"name": "Shoes", "quantity": "1", "price": "50.00EUR"}
	],
	"returnReasons": [{"id": "r1", "label": "Damaged"}]
}`

func TestHealth(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRequestIDHeader(t *testing.T) {
	handler := newTestServer(nil)

	w := doRequest(t, handler, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A caller-supplied ID is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestParse(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/parse", []byte(samplePayload))
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "payload", resp.Method)
	assert.Equal(t, 1.0, resp.Confidence)
	require.Len(t, resp.Invoice.LineItems, 2)
	require.NotNil(t, resp.Invoice.Total)
	assert.Equal(t, "100.00EUR", *resp.Invoice.Total)
	assert.Equal(t, 2, resp.Invoice.NumSelected)
}

func TestParse_EmptyBody(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/parse", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParse_StructuralError(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/parse", []byte(`{"fields": {}}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "line items")
}

func TestParse_RequireArticleNumber(t *testing.T) {
	handler := newTestServer(&server.Config{Address: ":0", RequireArticleNumber: true})

	w := doRequest(t, handler, http.MethodPost, "/api/v1/invoice/parse", []byte(samplePayload))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReconcile(t *testing.T) {
	body := []byte(`{
		"payload": ` + samplePayload + `,
		"edits": [
			{"op": "deselect", "index": 0, "reason_id": "r1"},
			{"op": "add_item", "name": "Extra", "price": "20.00EUR"}
		]
	}`)

	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/reconcile", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.ReconcileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 100 - 50 (deselected shirt) + 20 (added item)
	require.NotNil(t, resp.Invoice.Total)
	assert.Equal(t, "70.00EUR", *resp.Invoice.Total)
	require.Len(t, resp.Invoice.LineItems, 3)
	assert.False(t, resp.Invoice.LineItems[0].Selected)
	require.NotNil(t, resp.Invoice.LineItems[0].Reason)
	assert.Equal(t, "Damaged", resp.Invoice.LineItems[0].Reason.Label)
	assert.True(t, resp.Invoice.LineItems[2].UserAdded)

	// The feedback payload carries the reconciled total.
	require.NotNil(t, resp.Feedback)
	assert.Equal(t, "70.00EUR", resp.Feedback.Fields["amountToPay"])
	assert.Len(t, resp.Feedback.LineItems, 3)
}

func TestReconcile_NoEdits(t *testing.T) {
	body := []byte(`{"payload": ` + samplePayload + `}`)

	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/reconcile", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.ReconcileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Invoice.Total)
	assert.Equal(t, "100.00EUR", *resp.Invoice.Total)
}

func TestReconcile_MissingPayload(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/reconcile", []byte(`{"edits": []}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReconcile_BadEdit(t *testing.T) {
	body := []byte(`{
		"payload": ` + samplePayload + `,
		"edits": [{"op": "deselect", "index": 9}]
	}`)

	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/invoice/reconcile", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "edit 0")
}

func TestProcessDocument_PayloadPassthrough(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/process/document", []byte(samplePayload))
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payload", resp.Method)
}

func TestProcessDocument_NoExtractor(t *testing.T) {
	// Without an API key only payload inputs are supported.
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/process/document", jpeg)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestInfo(t *testing.T) {
	w := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/info", []byte(samplePayload))
	require.Equal(t, http.StatusOK, w.Code)

	var resp server.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payload", resp.Format)
	assert.Equal(t, len(samplePayload), resp.Size)
}
