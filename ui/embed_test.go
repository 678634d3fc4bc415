package ui

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDistFSEmbedded(t *testing.T) {
	indexData, err := fs.ReadFile(DistFS(), "index.html")
	if err != nil {
		t.Fatalf("Failed to read index.html from embedded filesystem: %v", err)
	}

	content := string(indexData)
	if !strings.Contains(content, "<!DOCTYPE") {
		t.Error("index.html does not appear to be valid HTML (missing DOCTYPE)")
	}
	if !strings.Contains(content, `id="profile-form"`) {
		t.Error("index.html is missing the profile form")
	}
}

func TestAssetsDirectoryEmbedded(t *testing.T) {
	for _, name := range []string{"assets/app.js", "assets/styles.css"} {
		data, err := fs.ReadFile(DistFS(), name)
		if err != nil {
			t.Errorf("failed to read %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestHandler(t *testing.T) {
	handler := Handler()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", "BizGet AI Weekly"},
		{"/assets/app.js", "javascript", "/api/profile"},
		{"/profiles", "text/html", `id="profile-form"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("content type = %q, want it to contain %q", rec.Header().Get("Content-Type"), tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}
