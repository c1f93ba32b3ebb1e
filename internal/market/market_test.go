package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/refi-calculator/pkg/datetime"
)

const fredXML = `<?xml version="1.0" encoding="utf-8" ?>
<observations realtime_start="2025-01-01" realtime_end="2025-01-01" count="4">
  <observation realtime_start="2025-01-01" realtime_end="2025-01-01" date="2024-12-26" value="6.85"/>
  <observation realtime_start="2025-01-01" realtime_end="2025-01-01" date="2024-12-12" value="6.60"/>
  <observation realtime_start="2025-01-01" realtime_end="2025-01-01" date="2024-12-19" value="."/>
  <observation realtime_start="2025-01-01" realtime_end="2025-01-01" date="2024-12-05" value="6.69"/>
</observations>`

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseObservationsRejectsBadDate(t *testing.T) {
	_, err := parseObservations([]byte(`<observations><observation date="2024-13-01" value="6.1"/></observations>`))
	if err == nil {
		t.Fatal("expected an invalid date to fail")
	}
}

func TestFREDClientFetchSeries(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(fredXML))
	}))
	defer srv.Close()

	client := NewFREDClient(srv.URL, "secret", 5*time.Second, nil)
	obs, err := client.FetchSeries(context.Background(), "MORTGAGE30US")
	if err != nil {
		t.Fatalf("FetchSeries returned error: %v", err)
	}

	for _, want := range []string{"series_id=MORTGAGE30US", "api_key=secret", "file_type=xml"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if len(obs) != 3 {
		t.Fatalf("expected 3 observations after skipping missing values, got %d", len(obs))
	}
	if !obs[0].Date.Equal(datetime.MustParseTime(datetime.DateLayout, "2024-12-05")) || obs[0].Value != 6.69 {
		t.Errorf("first observation = %+v, want 2024-12-05 6.69", obs[0])
	}
	if !obs[2].Date.Equal(date(2024, 12, 26)) || obs[2].Value != 6.85 {
		t.Errorf("last observation = %+v, want 2024-12-26 6.85", obs[2])
	}
}

func TestFREDClientErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		client := NewFREDClient("http://127.0.0.1:1", "", time.Second, nil)
		if _, err := client.FetchSeries(context.Background(), "MORTGAGE30US"); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewFREDClient(srv.URL, "key", time.Second, nil)
		_, err := client.FetchSeries(context.Background(), "MORTGAGE30US")
		if err == nil || !strings.Contains(err.Error(), "400") {
			t.Errorf("expected status code error, got %v", err)
		}
	})

	t.Run("error document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0"?><error code="400" message="Bad Request. The series does not exist."/>`))
		}))
		defer srv.Close()

		client := NewFREDClient(srv.URL, "key", time.Second, nil)
		_, err := client.FetchSeries(context.Background(), "NOPE")
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("expected FRED error message, got %v", err)
		}
	})
}

type fakeFetcher struct {
	data  map[string][]Observation
	errs  map[string]error
	calls int
}

func (f *fakeFetcher) FetchSeries(_ context.Context, seriesID string) ([]Observation, error) {
	f.calls++
	if err := f.errs[seriesID]; err != nil {
		return nil, err
	}
	return f.data[seriesID], nil
}

func TestFetchAllCollectsPerSeriesErrors(t *testing.T) {
	fetcher := &fakeFetcher{
		data: map[string][]Observation{
			"MORTGAGE30US": {{Date: date(2024, 1, 4), Value: 6.62}},
		},
		errs: map[string]error{
			"MORTGAGE15US": errors.New("boom"),
		},
	}
	svc := NewService(fetcher, nil, time.Minute, nil)

	data, errs := svc.FetchAll(context.Background())

	if len(data["30-Year"]) != 1 {
		t.Errorf("expected 30-Year data to survive, got %v", data["30-Year"])
	}
	if got, ok := data["15-Year"]; !ok || len(got) != 0 {
		t.Errorf("expected empty 15-Year series, got %v (present=%v)", got, ok)
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "boom") || !strings.HasPrefix(errs[0], "15-Year") {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestFetchAllUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{
		data: map[string][]Observation{
			"MORTGAGE30US": {{Date: date(2024, 1, 4), Value: 6.62}},
			"MORTGAGE15US": {{Date: date(2024, 1, 4), Value: 5.89}},
		},
	}
	svc := NewService(fetcher, NewMemoryCache(), time.Minute, nil)

	svc.FetchAll(context.Background())
	data, errs := svc.FetchAll(context.Background())

	if fetcher.calls != 2 {
		t.Errorf("expected 2 fetches with a warm cache, got %d", fetcher.calls)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if data["15-Year"][0].Value != 5.89 || !data["15-Year"][0].Date.Equal(date(2024, 1, 4)) {
		t.Errorf("cached observation mismatch: %+v", data["15-Year"][0])
	}

	svc.Refresh(context.Background())
	if fetcher.calls != 4 {
		t.Errorf("expected Refresh to bypass the cache, got %d calls", fetcher.calls)
	}
}

func TestFilterByMonths(t *testing.T) {
	var obs []Observation
	for m := time.January; m <= time.June; m++ {
		obs = append(obs, Observation{Date: date(2024, m, 1), Value: float64(m)})
	}

	tests := []struct {
		name   string
		months int
		want   int
	}{
		{"three months inclusive", 3, 4},
		{"zero keeps all", 0, 6},
		{"negative keeps all", -1, 6},
		{"window larger than data", 24, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByMonths(obs, tt.months)
			if len(got) != tt.want {
				t.Errorf("FilterByMonths(%d) returned %d points, want %d", tt.months, len(got), tt.want)
			}
		})
	}
}

func TestLatestQuotes(t *testing.T) {
	data := map[string][]Observation{
		"30-Year": {
			{Date: date(2024, 2, 1), Value: 6.9},
			{Date: date(2024, 1, 1), Value: 6.6},
		},
		"15-Year": {},
	}

	quotes := LatestQuotes(data, DefaultSeries)
	if len(quotes) != 1 {
		t.Fatalf("expected one quote, got %d", len(quotes))
	}
	if quotes[0].Label != "30-Year" || quotes[0].Value != 6.9 {
		t.Errorf("unexpected quote %+v", quotes[0])
	}

	if _, ok := Latest(nil); ok {
		t.Error("expected Latest of no observations to report false")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := date(2024, 1, 1)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", 15*time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if v, ok := cache.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("expected fresh hit, got %q %v", v, ok)
	}

	now = now.Add(15 * time.Minute)
	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("expected entry to expire after its TTL")
	}
	if _, ok := cache.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestRefresherSchedule(t *testing.T) {
	svc := NewService(&fakeFetcher{}, nil, time.Minute, nil)

	if _, err := NewRefresher(svc, "not a schedule", time.Second, nil); err == nil {
		t.Error("expected invalid schedule to fail")
	}

	r, err := NewRefresher(svc, "@every 1h", time.Second, nil)
	if err != nil {
		t.Fatalf("NewRefresher returned error: %v", err)
	}
	r.Start()
	r.Stop()
}
