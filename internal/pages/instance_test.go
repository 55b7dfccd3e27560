package pages

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/fetch"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pagetest"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

func newClient(t *testing.T, handler http.Handler) *fetch.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := fetch.NewClient(fetch.Options{BaseURL: srv.URL, HTTPClient: srv.Client()}, logger.New("error"))
	require.NoError(t, err)
	return client
}

func documentHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func mount(t *testing.T, def Definition, client *fetch.Client) *Instance {
	t.Helper()

	p := NewInstance(def, client, Options{}, logger.New("error"))
	p.Activate(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, p.Wait(ctx), "fetch did not settle")
	return p
}

func render(t *testing.T, p *Instance) pagetest.Page {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	return pagetest.Parse(t, buf.String())
}

func TestInstance_RendersOneCardPerProduct(t *testing.T) {
	doc := `{"data":[
		{"id":3,"name":"Gamma","price":"3.00"},
		{"id":1,"name":"Alpha","price":1.5},
		{"id":2,"name":"Beta","price":"2"}
	]}`
	p := mount(t, Browse, newClient(t, documentHandler(doc)))

	assert.Equal(t, StateResolved, p.State())

	want := []pagetest.Card{
		{Key: "3", Name: "Gamma", Price: "3.00"},
		{Key: "1", Name: "Alpha", Price: "1.5"},
		{Key: "2", Name: "Beta", Price: "2"},
	}
	page := render(t, p)
	if diff := cmp.Diff(want, page.Cards); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Browse products", page.Heading)
	assert.Equal(t, []pagetest.Link{{Href: "/", Label: "Home"}}, page.Links)
}

func TestInstance_WidgetScenario(t *testing.T) {
	p := mount(t, Home, newClient(t, documentHandler(`{"data":[{"id":1,"name":"Widget","price":"9.99"}]}`)))

	page := render(t, p)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "Widget", page.Cards[0].Name)
	assert.Equal(t, "9.99", page.Cards[0].Price)
	assert.Equal(t, "1", page.Cards[0].Key)
	assert.Equal(t, "Homepage", page.Heading)
	assert.Equal(t, []pagetest.Link{{Href: "/products", Label: "Browse products"}}, page.Links)
}

func TestInstance_EmptyAndMalformedDocuments(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.Handler
		wantState State
	}{
		{"empty data", documentHandler(`{"data":[]}`), StateResolved},
		{"missing data", documentHandler(`{"items":[1,2,3]}`), StateResolved},
		{"non json", documentHandler(`<html>oops</html>`), StatePending},
		{"server error page", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}), StatePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mount(t, Home, newClient(t, tt.handler))

			assert.Equal(t, tt.wantState, p.State())

			page := render(t, p)
			assert.Empty(t, page.Cards)
			assert.Equal(t, "Homepage", page.Heading)
			assert.Len(t, page.Links, 1)
		})
	}
}

func TestInstance_TransportErrorRendersChromeOnly(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	var logs bytes.Buffer
	client, err := fetch.NewClient(fetch.Options{BaseURL: baseURL}, logger.NewWithWriter(&logs, "error"))
	require.NoError(t, err)

	p := mount(t, Browse, client)

	assert.Equal(t, StatePending, p.State())
	page := render(t, p)
	assert.Empty(t, page.Cards)
	assert.Equal(t, "Browse products", page.Heading)
	assert.Equal(t, []pagetest.Link{{Href: "/", Label: "Home"}}, page.Links)
	assert.Contains(t, logs.String(), "fetching error")
}

func TestInstance_PendingView(t *testing.T) {
	release := make(chan struct{})
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Late"}]}`))
	}))

	p := NewInstance(Home, client, Options{}, logger.New("error"))

	var changes atomic.Int32
	var last atomic.Value
	p.OnChange(func(v View) {
		changes.Add(1)
		last.Store(v)
	})
	p.Activate(context.Background())

	assert.Equal(t, StatePending, p.State())
	assert.Empty(t, p.View().Cards)
	assert.True(t, p.Active())

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, p.Wait(ctx))

	assert.Equal(t, StateResolved, p.State())
	assert.Equal(t, int32(1), changes.Load())
	assert.Equal(t, []models.Product{{ID: "1", Name: "Late"}}, last.Load().(View).Cards)
}

func TestInstance_IgnoresResultAfterDeactivate(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Stale"}]}`))
	}))

	p := NewInstance(Home, client, Options{}, logger.New("error"))
	p.OnChange(func(View) {
		t.Error("change callback fired for an inactive page")
	})
	h := p.Activate(context.Background())
	p.Deactivate()
	assert.False(t, p.Active())

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, h.Wait(ctx))

	// The request still completed; only the update was dropped
	_, ok := h.Products()
	assert.True(t, ok)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, StatePending, p.State())
	assert.Empty(t, p.View().Cards)
}

func TestInstance_CancelOnDeactivate(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	p := NewInstance(Browse, client, Options{CancelOnDeactivate: true}, logger.New("error"))
	h := p.Activate(context.Background())
	p.Deactivate()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, h.Wait(ctx), "cancelled fetch should settle")

	assert.ErrorIs(t, h.Err(), fetch.ErrFetch)
	assert.Equal(t, StatePending, p.State())
}

func TestInstance_ActivateIsSingleUse(t *testing.T) {
	var hits atomic.Int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))

	p := mount(t, Home, client)
	second := p.Activate(context.Background())
	require.NotNil(t, second)

	assert.Equal(t, int32(1), hits.Load())
}

func TestInstance_IDsAreUnique(t *testing.T) {
	client := newClient(t, documentHandler(`{"data":[]}`))

	a := NewInstance(Home, client, Options{}, logger.New("error"))
	b := NewInstance(Home, client, Options{}, logger.New("error"))

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, Home, a.Definition())
}

func TestView_RenderHeadingLevels(t *testing.T) {
	var home, browse bytes.Buffer
	require.NoError(t, View{Heading: Home.Heading, HeadingLevel: Home.HeadingLevel, Link: Home.Link}.Render(&home))
	require.NoError(t, View{Heading: Browse.Heading, HeadingLevel: Browse.HeadingLevel, Link: Browse.Link}.Render(&browse))

	assert.True(t, strings.Contains(home.String(), "<h2>Homepage</h2>"))
	assert.True(t, strings.Contains(browse.String(), "<h3>Browse products</h3>"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "resolved", StateResolved.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestInstance_ConcurrentActivateSharesRequest(t *testing.T) {
	var hits atomic.Int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-r.Context().Done()
	}))

	p := NewInstance(Browse, client, Options{CancelOnDeactivate: true}, logger.New("error"))

	const callers = 16
	handles := make([]*fetch.Handle, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = p.Activate(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		require.Same(t, handles[0], handles[i])
	}

	// Cancelling on deactivate must reach the one request in flight
	p.Deactivate()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, handles[0].Wait(ctx), "cancelled fetch should settle")

	assert.ErrorIs(t, handles[0].Err(), fetch.ErrFetch)
	assert.LessOrEqual(t, hits.Load(), int32(1))
}
