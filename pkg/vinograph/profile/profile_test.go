package profile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

func sample() Profile {
	return Profile{
		"vanilla": {X: []float64{0.5}, W: []float64{1.0}, Count: 1},
		"cherry":  {X: []float64{0.1, 0.35}, W: []float64{0.5, 0.15}, Count: 2},
	}
}

func TestMarshalLayout(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{
    "cherry": {
        "x": [0.1, 0.35],
        "w": [0.5, 0.15],
        "count": 2
    },
    "vanilla": {
        "x": [0.5],
        "w": [1.0],
        "count": 1
    }
}`
	if string(data) != want {
		t.Errorf("Marshal =\n%s\nwant\n%s", data, want)
	}
}

func TestMarshalEmpty(t *testing.T) {
	data, err := Marshal(Profile{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Marshal(empty) = %q", data)
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("round trip = %+v, want %+v", got, sample())
	}
}

func TestUnmarshalTolerant(t *testing.T) {
	// compact layout, no count
	got, err := Unmarshal([]byte(`{"oak":{"w":[0.5,0.5],"x":[0.9,0.95]}}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["oak"].Count != 2 {
		t.Errorf("missing count should default to len(x), got %d", got["oak"].Count)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	tests := []string{
		`{"oak": {"x": [0.1, 0.2], "w": [0.5]}}`,
		`{"oak": `,
		`[1, 2, 3]`,
	}
	for _, in := range tests {
		if _, err := Unmarshal([]byte(in)); !errors.Is(err, internalerr.ErrMalformedInput) {
			t.Errorf("Unmarshal(%q) err = %v, want ErrMalformedInput", in, err)
		}
	}
}

func TestMarshalRejectsMismatchedSeries(t *testing.T) {
	p := Profile{"oak": {X: []float64{0.1}, W: nil}}
	if _, err := Marshal(p); !errors.Is(err, internalerr.ErrMalformedInput) {
		t.Errorf("err = %v, want ErrMalformedInput", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wine_7_data.json")

	if Exists(path) {
		t.Fatal("Exists before write")
	}
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !Exists(path) {
		t.Fatal("Exists after write")
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("ReadFile = %+v", got)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(bad)
	if !errors.Is(err, internalerr.ErrMalformedInput) {
		t.Errorf("corrupt: err = %v, want ErrMalformedInput", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := sample()
	c := p.Clone()
	c["cherry"].X[0] = 0.9
	if p["cherry"].X[0] != 0.1 {
		t.Error("Clone shares slices with the original")
	}
}
