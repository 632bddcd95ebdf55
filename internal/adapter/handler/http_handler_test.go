package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"stockroom/internal/adapter/storage"
	"stockroom/internal/core/domain"
	"stockroom/internal/core/service"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	mem := storage.NewMemoryAdapter()
	inventory := service.NewInventoryService(mem, mem, 100)
	t.Cleanup(inventory.Close)

	r := mux.NewRouter()
	r.Use(RequestLogger(zap.NewNop()))
	NewHTTPHandler(inventory, zap.NewNop(), otel.Tracer("test")).Register(r)
	return r
}

func doRequest(t *testing.T, r *mux.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

type itemResponse struct {
	Item domain.Item `json:"item"`
}

type resultResponse struct {
	Result string `json:"result"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func TestRoot(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decode[map[string]string](t, w)
	if body["message"] != "Hello World" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestWorkedExample(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/items/apple/5")
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, want 200", w.Code)
	}
	first := decode[itemResponse](t, w)
	if first.Item.ID != 1 || first.Item.Name != "apple" || first.Item.Quantity != 5 {
		t.Fatalf("unexpected item: %+v", first.Item)
	}

	w = doRequest(t, r, http.MethodPost, "/items/apple/3")
	second := decode[itemResponse](t, w)
	if second.Item.ID != 1 || second.Item.Quantity != 8 {
		t.Fatalf("unexpected item after second add: %+v", second.Item)
	}

	w = doRequest(t, r, http.MethodDelete, "/items/1/10")
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d, want 200", w.Code)
	}
	res := decode[resultResponse](t, w)
	if res.Result != "Item (1, apple) deleted." {
		t.Errorf("result = %q", res.Result)
	}

	w = doRequest(t, r, http.MethodGet, "/items/1")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after removal status = %d, want 404", w.Code)
	}
}

func TestAddItem_NonPositiveQuantity(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/items/apple/0", "/items/apple/-2"} {
		w := doRequest(t, r, http.MethodPost, path)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
			continue
		}
		body := decode[detailResponse](t, w)
		if body.Detail != "Quantity must be greater than 0." {
			t.Errorf("%s: detail = %q", path, body.Detail)
		}
	}

	// No state change from the rejected adds.
	w := doRequest(t, r, http.MethodGet, "/items")
	list := decode[struct {
		Items []domain.Item `json:"items"`
	}](t, w)
	if len(list.Items) != 0 {
		t.Errorf("expected no items, got %v", list.Items)
	}
}

func TestGetItem(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/items/42")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := decode[detailResponse](t, w)
	if body.Detail != "Item not found." {
		t.Errorf("detail = %q", body.Detail)
	}

	doRequest(t, r, http.MethodPost, "/items/apple/5")
	w = doRequest(t, r, http.MethodGet, "/items/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// The raw stored field map comes back as strings.
	raw := decode[struct {
		Item map[string]string `json:"item"`
	}](t, w)
	if raw.Item["item_id"] != "1" || raw.Item["item_name"] != "apple" || raw.Item["quantity"] != "5" {
		t.Errorf("unexpected fields: %v", raw.Item)
	}
}

func TestListItems(t *testing.T) {
	r := newTestRouter(t)

	doRequest(t, r, http.MethodPost, "/items/apple/5")
	doRequest(t, r, http.MethodPost, "/items/pear/2")

	w := doRequest(t, r, http.MethodGet, "/items")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	list := decode[struct {
		Items []domain.Item `json:"items"`
	}](t, w)
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}

	byName := make(map[string]domain.Item)
	for _, item := range list.Items {
		byName[item.Name] = item
	}
	if byName["apple"].Quantity != 5 || byName["pear"].Quantity != 2 {
		t.Errorf("unexpected items: %v", list.Items)
	}
}

func TestDeleteItem(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodDelete, "/items/42")
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete unknown status = %d, want 404", w.Code)
	}

	doRequest(t, r, http.MethodPost, "/items/apple/5")
	w = doRequest(t, r, http.MethodDelete, "/items/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	res := decode[resultResponse](t, w)
	if res.Result != "Item (1, apple) deleted." {
		t.Errorf("result = %q", res.Result)
	}

	if w := doRequest(t, r, http.MethodGet, "/items/1"); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestRemoveQuantity_Partial(t *testing.T) {
	r := newTestRouter(t)

	doRequest(t, r, http.MethodPost, "/items/apple/8")
	w := doRequest(t, r, http.MethodDelete, "/items/1/3")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	res := decode[resultResponse](t, w)
	if res.Result != "3 of 8 items from (1, apple) removed." {
		t.Errorf("result = %q", res.Result)
	}

	w = doRequest(t, r, http.MethodGet, "/items/1")
	raw := decode[struct {
		Item map[string]string `json:"item"`
	}](t, w)
	if raw.Item["quantity"] != "5" {
		t.Errorf("quantity = %q, want 5", raw.Item["quantity"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "client-id" {
		t.Errorf("X-Request-ID = %q, want client-id", got)
	}
}
