package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/vinograph/pkg/vinograph"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/extract"
	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
	"github.com/cognicore/vinograph/pkg/vinograph/store/memstore"
)

var cherryNotes = []string{
	"Bright cherry on the nose.",
	"Cherry and more cherry.",
	"Lovely cherry fruit, soft finish.",
}

func writeReviews(t *testing.T, dir string, id catalog.WineID, notes ...string) {
	t.Helper()
	var b strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&b, "{\"cleaned_note\": %q}\n", n)
	}
	if err := os.WriteFile(filepath.Join(dir, catalog.ReviewFileName(id)), []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	writeReviews(t, dir, "1", cherryNotes...)
	writeReviews(t, dir, "2", cherryNotes...)
	writeReviews(t, dir, "3", "A pleasant wine.", "Good value.")

	lex := lexicon.Default()
	e := vinograph.New(vinograph.Options{
		Store:       memstore.New(),
		Extractor:   extract.New(lex, extract.DefaultConfig()),
		Synthesizer: curve.New(lex, curve.DefaultConfig()),
		Ranker:      similarity.NewRanker(similarity.NewScorer(similarity.DefaultConfig())),
		ReviewDir:   dir,
	})
	t.Cleanup(func() { e.Close() })

	if _, err := e.ProfileFor(context.Background(), "2"); err != nil {
		t.Fatalf("ProfileFor: %v", err)
	}

	rc, err := catalog.NewReviewCounter(dir, 16)
	if err != nil {
		t.Fatal(err)
	}
	wines := []catalog.Wine{
		{ID: "1", Name: "Château Talbot", Winery: "Talbot", Country: "France"},
		{ID: "2", Name: "Chateau Lynch", Winery: "Lynch-Bages", Country: "France"},
		{ID: "3", Name: "Plain Red", Winery: "Nowhere"},
	}
	return NewServer(Options{Engine: e, Wines: wines, Reviews: rc, TopK: 5}).Router()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestStatusCodes(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		target string
		want   int
	}{
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/wines/1", http.StatusOK},
		{"/wines/999", http.StatusNotFound},
		{"/wines/999/profile", http.StatusNotFound},
		{"/wines/1/profile", http.StatusOK},
		{"/wines/3/profile", http.StatusUnprocessableEntity},
		{"/wines/1/curves?fidelity=thumbnail", http.StatusOK},
		{"/wines/1/curves?fidelity=huge", http.StatusBadRequest},
		{"/wines/1/similar?k=0", http.StatusBadRequest},
		{"/wines/1/similar?k=abc", http.StatusBadRequest},
		{"/wines/3/similar", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(t, h, tt.target)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestSearchWines(t *testing.T) {
	h := newTestServer(t)
	rr := get(t, h, "/wines?q=chateau")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var hits []struct {
		ID          string `json:"id"`
		ReviewFiles *int   `json:"review_files"`
		Eligible    *bool  `json:"eligible"`
	}
	decode(t, rr, &hits)
	if len(hits) != 2 {
		t.Fatalf("hits = %+v", hits)
	}
	for _, hit := range hits {
		if hit.ReviewFiles == nil || *hit.ReviewFiles != 3 {
			t.Errorf("wine %s review files = %v", hit.ID, hit.ReviewFiles)
		}
		if hit.Eligible == nil || *hit.Eligible {
			t.Errorf("wine %s with 3 reviews must not be eligible", hit.ID)
		}
	}

	rr = get(t, h, "/wines?q=")
	decode(t, rr, &hits)
	if len(hits) != 0 {
		t.Errorf("blank query hits = %d", len(hits))
	}
}

func TestGetProfileUsesArtifactLayout(t *testing.T) {
	h := newTestServer(t)
	rr := get(t, h, "/wines/1/profile")
	var p map[string]struct {
		X     []float64 `json:"x"`
		W     []float64 `json:"w"`
		Count int       `json:"count"`
	}
	decode(t, rr, &p)
	cherry, ok := p["cherry"]
	if !ok {
		t.Fatalf("profile = %s", rr.Body.String())
	}
	if cherry.Count != 3 || len(cherry.X) != len(cherry.W) {
		t.Errorf("cherry = %+v", cherry)
	}
}

func TestGetCurves(t *testing.T) {
	h := newTestServer(t)
	var full, thumb struct {
		Fidelity string `json:"fidelity"`
		X        []float64
		Bands    []struct {
			Key   string         `json:"key"`
			Color string         `json:"color"`
			Blur  []any          `json:"blur"`
			Label map[string]any `json:"label"`
		} `json:"bands"`
	}
	decode(t, get(t, h, "/wines/1/curves"), &full)
	decode(t, get(t, h, "/wines/1/curves?fidelity=thumb"), &thumb)

	if full.Fidelity != "full" || thumb.Fidelity != "thumbnail" {
		t.Fatalf("fidelities = %q, %q", full.Fidelity, thumb.Fidelity)
	}
	if len(full.X) != 600 || len(thumb.X) != 100 {
		t.Errorf("grid sizes = %d, %d", len(full.X), len(thumb.X))
	}
	if len(thumb.Bands) != 1 || thumb.Bands[0].Key != "cherry" {
		t.Fatalf("thumbnail bands = %+v", thumb.Bands)
	}
	if thumb.Bands[0].Label != nil || len(thumb.Bands[0].Blur) != 0 {
		t.Error("thumbnail must carry no label or blur")
	}
	if !strings.HasPrefix(full.Bands[0].Color, "#") {
		t.Errorf("color = %q", full.Bands[0].Color)
	}
}

func TestGetSimilar(t *testing.T) {
	h := newTestServer(t)
	rr := get(t, h, "/wines/1/similar?k=3")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var res struct {
		Target string `json:"target"`
		Stats  struct {
			Pool      int `json:"pool"`
			Self      int `json:"self"`
			NoProfile int `json:"no_profile"`
			Matched   int `json:"matched"`
		} `json:"stats"`
		Cards []struct {
			WineID         string             `json:"wine_id"`
			Title          string             `json:"title"`
			ScoreBreakdown map[string]float64 `json:"score_breakdown"`
		} `json:"cards"`
	}
	decode(t, rr, &res)
	if res.Stats.Pool != 3 || res.Stats.Self != 1 || res.Stats.NoProfile != 1 || res.Stats.Matched != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Cards) != 1 || res.Cards[0].WineID != "2" || res.Cards[0].Title != "Chateau Lynch" {
		t.Fatalf("cards = %+v", res.Cards)
	}
}

func TestHealthReportsCachedCounts(t *testing.T) {
	h := newTestServer(t)
	var before map[string]any
	decode(t, get(t, h, "/healthz"), &before)
	if before["status"] != "ok" || before["wines"] != float64(3) || before["review_counts_cached"] != float64(0) {
		t.Fatalf("health = %v", before)
	}

	get(t, h, "/wines?q=chateau")
	var after map[string]any
	decode(t, get(t, h, "/healthz"), &after)
	if after["review_counts_cached"] != float64(2) {
		t.Errorf("cached counts after search = %v, want 2", after["review_counts_cached"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t)
	rr := get(t, h, "/healthz")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}
