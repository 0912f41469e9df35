package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
)

var _ store.Store = (*Store)(nil)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "profiles"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	p := profile.Profile{"cherry": {X: []float64{0.1, 0.2}, W: []float64{0.5, 0.5}, Count: 2}}
	if err := s.PutProfile(ctx, "1042", p); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "wine_1042_data.json")); err != nil {
		t.Fatalf("artifact not at expected path: %v", err)
	}

	got, err := s.GetProfile(ctx, "1042")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("GetProfile = %+v", got)
	}

	ids, err := s.ListProfiles(ctx)
	if err != nil || !reflect.DeepEqual(ids, []string{"1042"}) {
		t.Errorf("ListProfiles = %v, %v", ids, err)
	}

	if err := s.DeleteProfile(ctx, "1042"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if err := s.DeleteProfile(ctx, "1042"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
	if _, err := s.GetProfile(ctx, "1042"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("after delete: err = %v", err)
	}
}

func TestFileStoreCorruptIsMiss(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path("9"), []byte(`{"cherry": {"x": [0.1`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = s.GetProfile(ctx, "9")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("corrupt artifact: err = %v, want ErrNotFound", err)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", "../x", `a\b`, ".."} {
		if err := s.PutProfile(ctx, id, profile.Profile{}); !errors.Is(err, internalerr.ErrMalformedInput) {
			t.Errorf("PutProfile(%q) err = %v, want ErrMalformedInput", id, err)
		}
	}
}

func TestFileStoreListIgnoresOtherFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"wine_1_data.json", "wine_2_data.json", "notes.txt", "wine_3.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	ids, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"1", "2"}) {
		t.Errorf("ListProfiles = %v", ids)
	}
}
