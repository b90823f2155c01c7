package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Params{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestPostsSendsEmbedAndPaging(t *testing.T) {
	router := chi.NewRouter()
	var gotQuery map[string]string
	router.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"_embed":   r.URL.Query().Get("_embed"),
			"page":     r.URL.Query().Get("page"),
			"per_page": r.URL.Query().Get("per_page"),
			"search":   r.URL.Query().Get("search"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"slug":"raising-resilient-kids","title":{"rendered":"Raising Resilient Kids"}}]`))
	})
	client := newTestClient(t, router)

	posts, err := client.Posts(context.Background(), PostListOptions{Page: 2, PerPage: 6, Search: "resilience"})
	if err != nil {
		t.Fatalf("posts: %v", err)
	}
	if len(posts) != 1 || posts[0].Title.Rendered != "Raising Resilient Kids" {
		t.Fatalf("unexpected posts %+v", posts)
	}
	want := map[string]string{"_embed": "1", "page": "2", "per_page": "6", "search": "resilience"}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Fatalf("query %s = %q, want %q", key, gotQuery[key], value)
		}
	}
}

func TestPostResolvesFirstSlugMatch(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") != "screen-time-limits" {
			t.Errorf("unexpected slug %q", r.URL.Query().Get("slug"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":9,"slug":"screen-time-limits","_embedded":{"author":[{"name":"Jane Mwangi"}]}}]`))
	})
	client := newTestClient(t, router)

	post, err := client.Post(context.Background(), "screen-time-limits")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if post.ID != 9 || post.Embedded == nil || post.Embedded.Author[0].Name != "Jane Mwangi" {
		t.Fatalf("unexpected post %+v", post)
	}
}

func TestPostUnknownSlugIsNotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/posts", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, router)

	_, err := client.Post(context.Background(), "missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestFailuresSurfaceOneGenericMessage(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Get("/categories", tt.handler)
			client := newTestClient(t, router)

			_, err := client.Categories(context.Background())
			if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
				t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
			}
			if got := pkgerrors.UserMessage(err); got != msgContentUnavailable {
				t.Fatalf("user message %q, want %q", got, msgContentUnavailable)
			}
		})
	}
}

func TestCategoriesDecoded(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":3,"name":"Discipline","slug":"discipline","count":12}]`))
	})
	client := newTestClient(t, router)

	categories, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := types.BlogCategory{ID: 3, Name: "Discipline", Slug: "discipline", Count: 12}
	if len(categories) != 1 || categories[0] != want {
		t.Fatalf("unexpected categories %+v", categories)
	}
}
