package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"kompi/internal/engine/links"
)

type fakeLinks map[string]*links.Link

func (f fakeLinks) Lookup(ctx context.Context, code string) (*links.Link, error) {
	if code == "boom" {
		return nil, errors.New("database is locked")
	}
	if l, ok := f[code]; ok {
		return l, nil
	}
	return nil, links.ErrNotFound
}

type fakeClicks struct {
	linkIDs []string
}

func (f *fakeClicks) LogClick(linkID string, r *http.Request) {
	f.linkIDs = append(f.linkIDs, linkID)
}

func codeParam(code string) httprouter.Param {
	return httprouter.Param{Key: "code", Value: code}
}

func TestRedirectHandler(t *testing.T) {
	store := fakeLinks{
		"xyz":   {ID: "l1", Code: "xyz", TargetURL: "example.com/menu", IsActive: true},
		"blank": {ID: "l2", Code: "blank", TargetURL: "   ", IsActive: true},
	}

	tests := []struct {
		name       string
		code       string
		wantStatus int
		wantBody   string
		wantTarget string
		wantClicks []string
	}{
		{"redirects to normalized target", "xyz", http.StatusFound, "", "https://example.com/menu", []string{"l1"}},
		{"unknown code", "nope", http.StatusNotFound, "Not found", "", nil},
		{"lookup failure", "boom", http.StatusNotFound, "Not found", "", nil},
		{"empty target", "blank", http.StatusInternalServerError, "Invalid target", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clicks := &fakeClicks{}
			h := NewRedirectHandler(store, clicks)

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(http.MethodGet, "/r/"+tt.code, codeParam(tt.code)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			assert.Equal(t, tt.wantTarget, rec.Header().Get("Location"))
			assert.Equal(t, tt.wantClicks, clicks.linkIDs)
		})
	}
}
