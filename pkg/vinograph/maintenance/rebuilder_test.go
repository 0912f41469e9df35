package maintenance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/extract"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
	"github.com/cognicore/vinograph/pkg/vinograph/store/memstore"
)

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

func TestRebuildSkipsExisting(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := memstore.New()
	writeReviews(t, dir, "1", "cherry plum", "cherry plum", "cherry")
	writeReviews(t, dir, "2", "cherry", "plum", "oak")

	stale := profile.Profile{"old": {X: []float64{0.5}, W: []float64{0.5}, Count: 1}}
	if err := st.PutProfile(ctx, "3", stale); err != nil {
		t.Fatal(err)
	}

	r := &Rebuilder{Store: st, Extractor: extract.New(lexicon.Default(), extract.DefaultConfig()), ReviewDir: dir}
	wines := []catalog.Wine{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	res, err := r.Rebuild(ctx, wines, false)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	want := Result{Processed: 4, Skipped: 1, Rebuilt: 1, Missing: 1, Insufficient: 1}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}

	p, err := st.GetProfile(ctx, "1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if _, ok := p["cherry"]; !ok {
		t.Errorf("profile = %v", p)
	}
	if p, _ := st.GetProfile(ctx, "3"); len(p) != 1 {
		t.Error("existing profile must not be rebuilt without force")
	}
}

func TestRebuildForce(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := memstore.New()
	writeReviews(t, dir, "1", "cherry", "cherry", "cherry")
	writeReviews(t, dir, "2", "a plain wine", "nothing to say")

	old := profile.Profile{"old": {X: []float64{0.5}, W: []float64{0.5}, Count: 1}}
	for _, id := range []string{"1", "2"} {
		if err := st.PutProfile(ctx, id, old); err != nil {
			t.Fatal(err)
		}
	}

	r := &Rebuilder{Store: st, Extractor: extract.New(lexicon.Default(), extract.DefaultConfig()), ReviewDir: dir}
	res, err := r.Rebuild(ctx, []catalog.Wine{{ID: "1"}, {ID: "2"}}, true)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if res.Rebuilt != 1 || res.Insufficient != 1 || res.Skipped != 0 {
		t.Errorf("result = %+v", res)
	}

	p, _ := st.GetProfile(ctx, "1")
	if _, ok := p["old"]; ok {
		t.Error("forced rebuild should replace the old profile")
	}
	if _, err := st.GetProfile(ctx, "2"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("stale profile should be dropped, err = %v", err)
	}
}

type failingStore struct {
	store.Store
}

func (failingStore) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	return nil, fmt.Errorf("disk: %w", internalerr.ErrIOFailure)
}

func TestRebuildCountsErrors(t *testing.T) {
	r := &Rebuilder{
		Store:     failingStore{Store: memstore.New()},
		Extractor: extract.New(lexicon.Default(), extract.DefaultConfig()),
		ReviewDir: t.TempDir(),
	}
	res, err := r.Rebuild(context.Background(), []catalog.Wine{{ID: "1"}, {ID: "2"}}, false)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if res.Errors != 2 || res.Processed != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestRebuildInvalidConfig(t *testing.T) {
	r := &Rebuilder{}
	if _, err := r.Rebuild(context.Background(), nil, false); err == nil {
		t.Error("expected configuration error")
	}
}

func TestRebuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Rebuilder{Store: memstore.New(), Extractor: extract.New(lexicon.Default(), extract.DefaultConfig())}
	if _, err := r.Rebuild(ctx, []catalog.Wine{{ID: "1"}}, false); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
