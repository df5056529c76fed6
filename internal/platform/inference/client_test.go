package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClassify_Success(t *testing.T) {
	var gotImage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("unexpected request body: %v", err)
		}
		gotImage = req["image"]

		json.NewEncoder(w).Encode(map[string]any{
			"predicted_class":  "Diabetic Retinopathy",
			"confidence_score": 0.87,
			"heatmap":          "/heatmaps/x.png",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.Classify(context.Background(), []byte("raw-image"))
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}

	if gotImage != base64.StdEncoding.EncodeToString([]byte("raw-image")) {
		t.Errorf("expected base64 image payload, got %q", gotImage)
	}
	if result.PredictedClass != "Diabetic Retinopathy" {
		t.Errorf("unexpected class %q", result.PredictedClass)
	}
	if result.ConfidenceScore != 0.87 {
		t.Errorf("unexpected confidence %f", result.ConfidenceScore)
	}
	if result.Heatmap != "/heatmaps/x.png" {
		t.Errorf("unexpected heatmap %q", result.Heatmap)
	}
}

func TestClassify_NetworkFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, time.Second)
	_, err := client.Classify(context.Background(), []byte("img"))

	var infErr *Error
	if !errors.As(err, &infErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !infErr.Retryable {
		t.Error("network failure should be retryable")
	}
	if !errors.Is(err, ErrInference) {
		t.Error("expected error to unwrap to ErrInference")
	}
}

func TestClassify_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Classify(context.Background(), []byte("img"))

	var infErr *Error
	if !errors.As(err, &infErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !infErr.Retryable {
		t.Error("5xx should be retryable")
	}
}

func TestClassify_ClientErrorIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Classify(context.Background(), []byte("img"))

	var infErr *Error
	if !errors.As(err, &infErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if infErr.Retryable {
		t.Error("4xx should be terminal")
	}
}

func TestClassify_MalformedResponseIsTerminal(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"missing class", `{"confidence_score": 0.5}`},
		{"confidence above one", `{"predicted_class": "x", "confidence_score": 1.5}`},
		{"negative confidence", `{"predicted_class": "x", "confidence_score": -0.1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second)
			_, err := client.Classify(context.Background(), []byte("img"))

			var infErr *Error
			if !errors.As(err, &infErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if infErr.Retryable {
				t.Error("malformed response should be terminal")
			}
		})
	}
}

func TestClassify_TimeoutIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond)
	_, err := client.Classify(context.Background(), []byte("img"))

	var infErr *Error
	if !errors.As(err, &infErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !infErr.Retryable {
		t.Error("timeout should be retryable")
	}
}
