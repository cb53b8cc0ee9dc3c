package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/paulmach/orb"
)

type pageServer struct {
	mu       sync.Mutex
	requests []*http.Request
	handler  func(w http.ResponseWriter, r *http.Request, call int)
}

func (s *pageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	call := len(s.requests)
	s.mu.Unlock()
	s.handler(w, r, call)
}

func (s *pageServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int), pageSize int) (*Client, *pageServer) {
	t.Helper()
	ps := &pageServer{handler: handler}
	srv := httptest.NewServer(ps)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.PageSize = pageSize
	cfg.RatePerSecond = 0
	return NewClient(cfg, nil), ps
}

var testBounds = orb.Bound{Min: orb.Point{461000, 100000}, Max: orb.Point{463000, 102000}}

func TestFetchAddressesInBoundsPaginates(t *testing.T) {
	client, ps := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int) {
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		switch start {
		case 0:
			w.Write([]byte(pageOf(3, 0)))
		case 3:
			w.Write([]byte(pageOf(1, 3)))
		default:
			t.Errorf("unexpected startIndex %d", start)
		}
	}, 3)

	records, err := client.FetchAddressesInBounds(context.Background(), testBounds)
	if err != nil {
		t.Fatalf("FetchAddressesInBounds() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if ps.count() != 2 {
		t.Errorf("made %d requests, want 2", ps.count())
	}
	for i, r := range records {
		if want := "AD." + strconv.Itoa(i); r.ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, r.ID, want)
		}
	}
}

func TestFetchAddressesInBoundsEmptyFinalPage(t *testing.T) {
	client, ps := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int) {
		if call == 1 {
			w.Write([]byte(pageOf(2, 0)))
			return
		}
		w.Write([]byte(featureCollection()))
	}, 2)

	records, err := client.FetchAddressesInBounds(context.Background(), testBounds)
	if err != nil {
		t.Fatalf("FetchAddressesInBounds() error = %v", err)
	}
	if len(records) != 2 || ps.count() != 2 {
		t.Errorf("records = %d, requests = %d; want 2 and 2", len(records), ps.count())
	}
}

func TestFetchAddressesInBoundsSubunitsCountTowardPageSize(t *testing.T) {
	client, ps := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int) {
		if call == 1 {
			w.Write([]byte(featureCollection(
				fixtureAddress{id: "AD.1", x: 1, y: 1, number: "1", street: "A"},
				fixtureAddress{id: "AD.2", x: 1, y: 1, number: "1", street: "A", parent: "https://example.si/AD.1"},
			)))
			return
		}
		w.Write([]byte(featureCollection(fixtureAddress{id: "AD.3", x: 1, y: 1, number: "2", street: "A"})))
	}, 2)

	records, err := client.FetchAddressesInBounds(context.Background(), testBounds)
	if err != nil {
		t.Fatalf("FetchAddressesInBounds() error = %v", err)
	}
	if ps.count() != 2 {
		t.Errorf("made %d requests, want 2", ps.count())
	}
	if len(records) != 2 || records[0].ID != "AD.1" || records[1].ID != "AD.3" {
		t.Errorf("records = %+v", records)
	}
}

func TestFetchAddressesInBoundsErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request, call int)
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request, call int) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: ErrNetwork,
		},
		{
			name: "exception report",
			handler: func(w http.ResponseWriter, r *http.Request, call int) {
				w.Write([]byte(exceptionReport))
			},
			want: ErrDataFormat,
		},
		{
			name: "not xml",
			handler: func(w http.ResponseWriter, r *http.Request, call int) {
				w.Write([]byte(`{"type":"FeatureCollection"}`))
			},
			want: ErrDataFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler, 10)
			records, err := client.FetchAddressesInBounds(context.Background(), testBounds)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if errors.Is(err, ErrPartialResult) {
				t.Error("first page failure must not be reported as partial")
			}
			if records != nil {
				t.Errorf("records = %v, want nil", records)
			}
		})
	}
}

func TestFetchAddressesInBoundsPartialResult(t *testing.T) {
	client, ps := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int) {
		if call == 1 {
			w.Write([]byte(pageOf(2, 0)))
			return
		}
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}, 2)

	records, err := client.FetchAddressesInBounds(context.Background(), testBounds)
	if !errors.Is(err, ErrPartialResult) {
		t.Fatalf("error = %v, want ErrPartialResult", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want it to wrap ErrNetwork", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want the 2 from the first page", len(records))
	}
	if ps.count() != 2 {
		t.Errorf("made %d requests, want 2", ps.count())
	}
}

func TestFetchAddressesInBoundsPartialResultOnlySubunits(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int) {
		if call == 1 {
			w.Write([]byte(featureCollection(
				fixtureAddress{id: "AD.2", x: 1, y: 1, number: "1", street: "A", parent: "https://example.si/AD.1"},
				fixtureAddress{id: "AD.3", x: 1, y: 1, number: "1", street: "A", parent: "https://example.si/AD.1"},
			)))
			return
		}
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}, 2)

	records, err := client.FetchAddressesInBounds(context.Background(), testBounds)
	if !errors.Is(err, ErrPartialResult) {
		t.Fatalf("error = %v, want ErrPartialResult", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none", records)
	}
}

func TestFetchAddressesInBoundsCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int) {
		w.Write([]byte(featureCollection()))
	}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchAddressesInBounds(ctx, testBounds); !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestPageURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://registry.example/ows"
	cfg.PageSize = 500

	t.Run("with subunit filter", func(t *testing.T) {
		c := NewClient(cfg, nil)
		u := c.pageURL(testBounds, 1000)
		req, _ := http.NewRequest(http.MethodGet, u, nil)
		q := req.URL.Query()

		checks := map[string]string{
			"service":      "WFS",
			"version":      "2.0.0",
			"request":      "GetFeature",
			"typeNames":    "ad:Address",
			"outputFormat": "GML32",
			"count":        "500",
			"startIndex":   "1000",
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("%s = %q, want %q", k, got, want)
			}
		}
		if q.Get("bbox") != "" {
			t.Error("bbox must not be sent alongside FILTER")
		}
		filter := q.Get("FILTER")
		for _, want := range []string{
			"<gml:lowerCorner>461000.000 100000.000</gml:lowerCorner>",
			"<gml:upperCorner>463000.000 102000.000</gml:upperCorner>",
			"PropertyIsNil",
			NationalCRS,
		} {
			if !strings.Contains(filter, want) {
				t.Errorf("FILTER missing %q", want)
			}
		}
	})

	t.Run("plain bbox", func(t *testing.T) {
		cfg := cfg
		cfg.ExcludeSubunits = false
		c := NewClient(cfg, nil)
		req, _ := http.NewRequest(http.MethodGet, c.pageURL(testBounds, 0), nil)

		want := "461000.000,100000.000,463000.000,102000.000," + NationalCRS
		if got := req.URL.Query().Get("bbox"); got != want {
			t.Errorf("bbox = %q, want %q", got, want)
		}
	})
}
