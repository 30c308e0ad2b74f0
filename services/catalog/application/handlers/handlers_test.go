package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
	appsvcs "github.com/ghuser/catalog/services/catalog/application/services"
	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/domain/repositories"
)

// memItemRepository is an in-memory ItemRepository for handler tests.
type memItemRepository struct {
	items map[uuid.UUID]models.Item
}

func newMemItemRepository() *memItemRepository {
	return &memItemRepository{items: make(map[uuid.UUID]models.Item)}
}

func (r *memItemRepository) ListAll(_ context.Context) ([]*models.Item, error) {
	out := make([]*models.Item, 0, len(r.items))
	for _, it := range r.items {
		copied := it
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memItemRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := it
	return &copied, nil
}

func (r *memItemRepository) Create(_ context.Context, item *models.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepository) Update(_ context.Context, item *models.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// newTestRouter mounts the item handlers the same way ItemRoutes does,
// backed by the in-memory repository.
func newTestRouter(repo repositories.ItemRepository) *chi.Mux {
	log := logger.New(&config.Config{LogLevel: "error"})
	svcs := &appsvcs.Services{Item: appsvcs.NewItemService(repo, nil, nil, log)}

	r := chi.NewRouter()
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", NewGetItemsHandler(svcs).Execute)
		r.Post("/", NewPostItemHandler(svcs).Execute)
		r.Get("/{id}", NewGetItemHandler(svcs).Execute)
		r.Put("/{id}", NewPutItemHandler(svcs).Execute)
		r.Delete("/{id}", NewDeleteItemHandler(svcs).Execute)
	})
	return r
}

func seedItem(repo *memItemRepository, name string, price float64) *models.Item {
	item := models.NewItem(name, price)
	repo.items[item.ID] = *item
	return item
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetItems(t *testing.T) {
	t.Run("empty catalog returns empty array", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodGet, "/api/items", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %q, want []", got)
		}
	})

	t.Run("returns all items", func(t *testing.T) {
		repo := newMemItemRepository()
		seedItem(repo, "Widget", 9.99)
		seedItem(repo, "Gadget", 19.99)
		router := newTestRouter(repo)

		rec := doRequest(t, router, http.MethodGet, "/api/items", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var items []ItemResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("got %d items, want 2", len(items))
		}
	})
}

func TestGetItem(t *testing.T) {
	repo := newMemItemRepository()
	item := seedItem(repo, "Widget", 9.99)
	router := newTestRouter(repo)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/items/"+item.ID.String(), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got ItemResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if got.ID != item.ID {
			t.Errorf("id = %s, want %s", got.ID, item.ID)
		}
		if got.Name != "Widget" || got.Price != 9.99 {
			t.Errorf("got %q/%v, want Widget/9.99", got.Name, got.Price)
		}
		if !got.CreatedAt.Equal(item.CreatedAt) {
			t.Errorf("created_date = %v, want %v", got.CreatedAt, item.CreatedAt)
		}
	})

	t.Run("absent id returns 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/items/"+uuid.NewString(), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal error response: %v", err)
		}
		if !strings.Contains(resp.Error, "not found") {
			t.Errorf("error = %q, want mention of not found", resp.Error)
		}
	})

	t.Run("malformed id returns 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/items/not-a-uuid", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestPostItem(t *testing.T) {
	t.Run("creates item", func(t *testing.T) {
		repo := newMemItemRepository()
		router := newTestRouter(repo)

		before := time.Now().UTC()
		rec := doRequest(t, router, http.MethodPost, "/api/items", `{"name":"Widget","price":9.99}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}

		var got ItemResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if got.ID == uuid.Nil {
			t.Error("expected server-assigned id")
		}
		if got.Name != "Widget" || got.Price != 9.99 {
			t.Errorf("got %q/%v, want Widget/9.99", got.Name, got.Price)
		}
		if got.CreatedAt.Before(before) {
			t.Errorf("created_date %v precedes request time %v", got.CreatedAt, before)
		}

		wantLocation := "/api/items/" + got.ID.String()
		if loc := rec.Header().Get("Location"); loc != wantLocation {
			t.Errorf("Location = %q, want %q", loc, wantLocation)
		}

		if _, ok := repo.items[got.ID]; !ok {
			t.Error("item not persisted in repository")
		}
	})

	t.Run("invalid JSON returns 400", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodPost, "/api/items", `{"name":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing name returns 422", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodPost, "/api/items", `{"price":9.99}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("zero price is accepted", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodPost, "/api/items", `{"name":"Freebie","price":0}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestPutItem(t *testing.T) {
	t.Run("updates item", func(t *testing.T) {
		repo := newMemItemRepository()
		item := seedItem(repo, "Widget", 9.99)
		router := newTestRouter(repo)

		rec := doRequest(t, router, http.MethodPut, "/api/items/"+item.ID.String(), `{"name":"Widget2","price":12.00}`)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204, body: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rec.Body.String())
		}

		stored := repo.items[item.ID]
		if stored.Name != "Widget2" || stored.Price != 12.00 {
			t.Errorf("stored %q/%v, want Widget2/12.00", stored.Name, stored.Price)
		}
		if stored.ID != item.ID || !stored.CreatedAt.Equal(item.CreatedAt) {
			t.Errorf("id or created_date changed across update")
		}
	})

	t.Run("absent id returns 404", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodPut, "/api/items/"+uuid.NewString(), `{"name":"Widget2","price":12.00}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("malformed id returns 404", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodPut, "/api/items/not-a-uuid", `{"name":"Widget2","price":12.00}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing name returns 422", func(t *testing.T) {
		repo := newMemItemRepository()
		item := seedItem(repo, "Widget", 9.99)
		router := newTestRouter(repo)

		rec := doRequest(t, router, http.MethodPut, "/api/items/"+item.ID.String(), `{"price":12.00}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})
}

func TestDeleteItem(t *testing.T) {
	t.Run("deletes item", func(t *testing.T) {
		repo := newMemItemRepository()
		item := seedItem(repo, "Widget", 9.99)
		router := newTestRouter(repo)

		rec := doRequest(t, router, http.MethodDelete, "/api/items/"+item.ID.String(), "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rec.Body.String())
		}

		rec = doRequest(t, router, http.MethodGet, "/api/items/"+item.ID.String(), "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET after DELETE: status = %d, want 404", rec.Code)
		}
	})

	t.Run("absent id returns 404", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodDelete, "/api/items/"+uuid.NewString(), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("malformed id returns 404", func(t *testing.T) {
		router := newTestRouter(newMemItemRepository())

		rec := doRequest(t, router, http.MethodDelete, "/api/items/not-a-uuid", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
