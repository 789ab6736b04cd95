package grades

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/expungepa/petition-builder/internal/store"
)

func TestSplitStatute(t *testing.T) {
	tests := []struct {
		name    string
		statute string
		want    StatuteComponents
	}{
		{
			name:    "title section subsection",
			statute: "18 2705 a.1",
			want:    StatuteComponents{Title: "18", Section: "2705", Subsection: "a.1"},
		},
		{
			name:    "multi-part subsection is joined",
			statute: "18 3929 a 1",
			want:    StatuteComponents{Title: "18", Section: "3929", Subsection: "a1"},
		},
		{
			name:    "title only",
			statute: "18",
			want:    StatuteComponents{Title: "18"},
		},
		{
			name:    "empty statute",
			statute: "",
			want:    StatuteComponents{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitStatute(tt.statute)
			if got != tt.want {
				t.Errorf("SplitStatute(%q) = %+v, want %+v", tt.statute, got, tt.want)
			}
		})
	}
}

func TestPredict(t *testing.T) {
	oracle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["offense"] != "endangering othrs." || req["title"] != "18" {
			t.Errorf("unexpected request: %v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[["M1", 0.6], ["M2", 0.3]]`))
	}))
	defer oracle.Close()

	client := NewClient(oracle.URL, 5*time.Second)
	got, err := client.Predict(context.Background(), "endangering othrs.", SplitStatute("18 2705 a.1"))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	want := store.GradeProbabilities{
		{Grade: "M1", Probability: 0.6},
		{Grade: "M2", Probability: 0.3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Predict() = %#v, want %#v", got, want)
	}
}

func TestPredictServiceError(t *testing.T) {
	oracle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer oracle.Close()

	client := NewClient(oracle.URL, 5*time.Second)
	if _, err := client.Predict(context.Background(), "theft", StatuteComponents{}); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}
