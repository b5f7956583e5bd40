package los

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultTable_Exhaustive(t *testing.T) {
	table := DefaultTable()
	for h := 0; h <= 10000; h++ {
		matches := 0
		for _, b := range table.Buckets() {
			if b.Contains(float64(h)) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("headway %d matched %d buckets, want exactly 1", h, matches)
		}
	}
}

func TestTable_Classify(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		headway float64
		want    string
	}{
		{0, "A"},
		{600, "A"},
		{600.5, "B"},
		{900, "B"},
		{1200, "C"},
		{1440, "D"},
		{1800, "D"},
		{3600, "E"},
		{7200, "F"},
		{7201, " "},
		{math.Inf(1), " "},
	}
	for _, tt := range tests {
		b, err := table.Classify(tt.headway)
		if err != nil {
			t.Fatalf("Classify(%g): %v", tt.headway, err)
		}
		if b.Name != tt.want {
			t.Errorf("Classify(%g) = %q, want %q", tt.headway, b.Name, tt.want)
		}
	}
}

func TestTable_ClassifyOutside(t *testing.T) {
	for _, h := range []float64{-1, -50, math.NaN(), math.Inf(-1)} {
		if _, err := DefaultTable().Classify(h); !errors.Is(err, ErrUnclassifiable) {
			t.Errorf("Classify(%g) err = %v, want ErrUnclassifiable", h, err)
		}
	}
}

func TestTable_Ranks(t *testing.T) {
	table := DefaultTable()
	for i, b := range table.Buckets() {
		if b.Rank != i {
			t.Errorf("bucket %q rank = %d, want %d", b.Name, b.Rank, i)
		}
	}
	if table.NoService().Label != "No service" {
		t.Errorf("NoService label = %q", table.NoService().Label)
	}
	if b, ok := table.Lookup("C"); !ok || b.MaxInclusive != 1200 {
		t.Errorf("Lookup(C) = %+v, %v", b, ok)
	}
	if _, ok := table.Lookup("Z"); ok {
		t.Error("Lookup(Z) should miss")
	}
}

func TestNewTable_Misconfigured(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name    string
		buckets []Bucket
		wantErr string
	}{
		{"empty", nil, "no buckets"},
		{"gap", []Bucket{
			{Name: "A", MinExclusive: -1, MaxInclusive: 600},
			{Name: "B", MinExclusive: 700, MaxInclusive: inf},
		}, "starts at 700"},
		{"overlap", []Bucket{
			{Name: "A", MinExclusive: -1, MaxInclusive: 600},
			{Name: "B", MinExclusive: 500, MaxInclusive: inf},
		}, "starts at 500"},
		{"bounded", []Bucket{
			{Name: "A", MinExclusive: -1, MaxInclusive: 600},
			{Name: "B", MinExclusive: 600, MaxInclusive: 900},
		}, "+Inf"},
		{"starts at zero", []Bucket{
			{Name: "A", MinExclusive: 0, MaxInclusive: inf},
		}, "below 0"},
		{"duplicate", []Bucket{
			{Name: "A", MinExclusive: -1, MaxInclusive: 600},
			{Name: "A", MinExclusive: 600, MaxInclusive: inf},
		}, "duplicate"},
		{"inverted", []Bucket{
			{Name: "A", MinExclusive: 600, MaxInclusive: -1},
		}, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.buckets)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustNewTable_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewTable should panic on a misconfigured table")
		}
	}()
	MustNewTable([]Bucket{{Name: "A", MinExclusive: -1, MaxInclusive: 10}})
}

func TestBucket_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(DefaultTable().NoService())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"max":null`) {
		t.Errorf("unbounded max should be null, got %s", b)
	}
	b, _ = json.Marshal(DefaultTable().Buckets()[0])
	if !strings.Contains(string(b), `"max":600`) {
		t.Errorf("bounded max missing, got %s", b)
	}
}
