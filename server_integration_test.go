package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"recpay/pkg/ledger"

	"github.com/gin-gonic/gin"
)

var txidRE = regexp.MustCompile(`^REC-\d{8}-\d{4}$`)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	loadAdminCredentials()
	tmp := t.TempDir()
	_ = os.Setenv("RECEIPT_BASE", tmp)
	loadPayeeConfig()
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(payload)
	return performRequest(r, http.MethodPost, path, bytes.NewBuffer(b), token, "application/json")
}

func adminToken(t *testing.T, r http.Handler) string {
	t.Helper()
	resp := postJSON(t, r, "/admin/login", map[string]string{"username": "admin", "password": "admin123"}, "")
	if resp.Code != 200 {
		t.Fatalf("admin login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func validPayload() map[string]any {
	return map[string]any{"name": "Asha Rao", "phone": "9876543210", "address": "12 MG Road, Pune", "amount": 250}
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	token := adminToken(t, r)

	// make sure the gate starts active for this run
	resp := postJSON(t, r, "/admin/set-gate-status", map[string]string{"status": ledger.GateActive}, token)
	if resp.Code != 200 {
		t.Fatalf("set gate active failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 1. Public gate status
	resp = performRequest(r, http.MethodGet, "/payment-gate-status", nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("gate status failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Bad admin credentials are rejected
	resp = postJSON(t, r, "/admin/login", map[string]string{"username": "admin", "password": "wrong"}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials got %d", resp.Code)
	}

	// 3. Initiate quotes a transfer target and persists nothing
	resp = postJSON(t, r, "/initiate-payment", validPayload(), "")
	if resp.Code != 200 {
		t.Fatalf("initiate failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var initResp struct {
		TransferTarget struct {
			PayeeVPA string  `json:"payee_vpa"`
			Note     string  `json:"note"`
			Amount   float64 `json:"amount"`
		} `json:"transfer_target"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &initResp)
	if initResp.TransferTarget.PayeeVPA == "" || initResp.TransferTarget.Note == "" {
		t.Fatalf("incomplete transfer target: %s", resp.Body.String())
	}

	// 4. Paused gate blocks both phases
	resp = postJSON(t, r, "/admin/set-gate-status", map[string]string{"status": ledger.GatePaused}, token)
	if resp.Code != 200 {
		t.Fatalf("pause gate failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if resp := postJSON(t, r, "/confirm-payment", validPayload(), ""); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 while paused got %d body=%s", resp.Code, resp.Body.String())
	}
	if resp := postJSON(t, r, "/initiate-payment", validPayload(), ""); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 while paused got %d body=%s", resp.Code, resp.Body.String())
	}
	resp = postJSON(t, r, "/admin/set-gate-status", map[string]string{"status": ledger.GateActive}, token)
	if resp.Code != 200 {
		t.Fatalf("reactivate gate failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Validation failures surface user-facing reasons
	low := validPayload()
	low["amount"] = 99
	if resp := postJSON(t, r, "/confirm-payment", low, ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for low amount got %d body=%s", resp.Code, resp.Body.String())
	}
	badPhone := validPayload()
	badPhone["phone"] = "12345"
	if resp := postJSON(t, r, "/confirm-payment", badPhone, ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad phone got %d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Confirm creates a record with a well-formed transaction id
	resp = postJSON(t, r, "/confirm-payment", validPayload(), "")
	if resp.Code != 200 {
		t.Fatalf("confirm failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var confirmResp struct {
		Status  string `json:"status"`
		Payment struct {
			ID            uint   `json:"id"`
			TransactionID string `json:"transaction_id"`
		} `json:"payment"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &confirmResp)
	if confirmResp.Status != "success" || !txidRE.MatchString(confirmResp.Payment.TransactionID) {
		t.Fatalf("unexpected confirm response: %s", resp.Body.String())
	}
	id := confirmResp.Payment.ID

	// 7. Admin listings require the token
	if resp := performRequest(r, http.MethodGet, "/admin/payments", nil, "", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
	if resp := performRequest(r, http.MethodGet, "/admin/payments", nil, token, ""); resp.Code != 200 {
		t.Fatalf("admin payments failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Trash is idempotent: second call reports success=false with no error
	assertSuccess := func(path string, want bool) {
		t.Helper()
		resp := postJSON(t, r, path, nil, token)
		if resp.Code != 200 {
			t.Fatalf("%s failed status=%d body=%s", path, resp.Code, resp.Body.String())
		}
		var body map[string]any
		_ = json.Unmarshal(resp.Body.Bytes(), &body)
		if got, _ := body["success"].(bool); got != want {
			t.Fatalf("%s: expected success=%v body=%s", path, want, resp.Body.String())
		}
	}
	trashPath := fmt.Sprintf("/admin/trash/%d", id)
	assertSuccess(trashPath, true)
	assertSuccess(trashPath, false)

	// 9. Restore round-trips, purge only works from trash
	assertSuccess(fmt.Sprintf("/admin/restore/%d", id), true)
	assertSuccess(fmt.Sprintf("/admin/purge/%d", id), false) // active record, soft no-op
	assertSuccess(trashPath, true)
	assertSuccess(fmt.Sprintf("/admin/purge/%d", id), true)
	assertSuccess(trashPath, false) // purged id is gone

	// 10. Bulk transitions: trash-all empties the active listing,
	// restore-all brings it back, purge-trashed removes for good
	if resp := postJSON(t, r, "/confirm-payment", validPayload(), ""); resp.Code != 200 {
		t.Fatalf("confirm failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	countListing := func(path string) int {
		t.Helper()
		resp := performRequest(r, http.MethodGet, path, nil, token, "")
		if resp.Code != 200 {
			t.Fatalf("%s failed status=%d body=%s", path, resp.Code, resp.Body.String())
		}
		var items []map[string]any
		_ = json.Unmarshal(resp.Body.Bytes(), &items)
		return len(items)
	}
	activeBefore := countListing("/admin/payments")
	if activeBefore == 0 {
		t.Fatal("expected at least one active payment before trash-all")
	}
	assertSuccess("/admin/trash-all", true)
	if got := countListing("/admin/payments"); got != 0 {
		t.Fatalf("expected empty active listing after trash-all, got %d", got)
	}
	assertSuccess("/admin/restore-all", true)
	if got := countListing("/admin/payments"); got != activeBefore {
		t.Fatalf("restore-all: expected %d active payments, got %d", activeBefore, got)
	}
	assertSuccess("/admin/trash-all", true)
	assertSuccess("/admin/purge-trashed", true)
	if got := countListing("/admin/trash"); got != 0 {
		t.Fatalf("expected empty trash after purge-trashed, got %d", got)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	loadPayeeConfig()
	initDB()
}
