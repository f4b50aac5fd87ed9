package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kompi/internal/engine/krcodes"
	"kompi/internal/engine/render"
	"kompi/internal/platform/config"
)

type renderCall struct {
	format render.Format
	id     string
	origin string
}

type fakeRenderer struct {
	calls []renderCall
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, format render.Format, id, origin string) (*render.Artifact, error) {
	f.calls = append(f.calls, renderCall{format, id, origin})
	if f.err != nil {
		return nil, f.err
	}
	contentType := "image/png"
	if format == render.FormatSVG {
		contentType = "image/svg+xml"
	}
	return &render.Artifact{Body: []byte("body-" + string(format)), ContentType: contentType}, nil
}

type fakeStyles struct {
	codes map[string]*krcodes.KRCode
	err   error
}

func (f *fakeStyles) Artifact(ctx context.Context, id string) (*krcodes.KRCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.codes[id]; ok {
		return c, nil
	}
	return nil, krcodes.ErrNotFound
}

func idParam(id string) httprouter.Param {
	return httprouter.Param{Key: "id", Value: id}
}

func TestKRCodeHandler_PNG(t *testing.T) {
	renderer := &fakeRenderer{}
	h := NewKRCodeHandler(renderer, &fakeStyles{}, &config.AppConfig{})

	req := newRequest(http.MethodGet, "http://kompi.test/api/kr-codes/kr_1/png", idParam("kr_1"))
	rec := httptest.NewRecorder()
	h.PNG(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="krcode-kr_1.png"`, rec.Header().Get("Content-Disposition"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Equal(t, "body-png", rec.Body.String())

	require.Len(t, renderer.calls, 1)
	assert.Equal(t, renderCall{render.FormatPNG, "kr_1", "http://kompi.test"}, renderer.calls[0])
}

func TestKRCodeHandler_SVG(t *testing.T) {
	renderer := &fakeRenderer{}
	h := NewKRCodeHandler(renderer, &fakeStyles{}, &config.AppConfig{PublicURL: "https://kompi.app/"})

	req := newRequest(http.MethodGet, "http://internal:3000/api/kr-codes/kr_1/svg", idParam("kr_1"))
	rec := httptest.NewRecorder()
	h.SVG(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="krcode-kr_1.svg"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "https://kompi.app", renderer.calls[0].origin, "configured public URL wins over the request host")
}

func TestKRCodeHandler_Thumbnail(t *testing.T) {
	for _, target := range []string{"/api/kr-codes/kr_1/thumb.png", "/api/kr-codes/kr_1/png?thumb=1"} {
		t.Run(target, func(t *testing.T) {
			renderer := &fakeRenderer{}
			h := NewKRCodeHandler(renderer, &fakeStyles{}, &config.AppConfig{})

			req := newRequest(http.MethodGet, target, idParam("kr_1"))
			rec := httptest.NewRecorder()
			if target == "/api/kr-codes/kr_1/thumb.png" {
				h.Thumbnail(rec, req)
			} else {
				h.PNG(rec, req)
			}

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=86400, s-maxage=86400, stale-while-revalidate=604800", rec.Header().Get("Cache-Control"))
			assert.Empty(t, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, render.FormatThumb, renderer.calls[0].format)
		})
	}
}

func TestKRCodeHandler_FailuresAreOpaque404(t *testing.T) {
	errs := []error{
		fmt.Errorf("kr code x: %w", krcodes.ErrNotFound),
		fmt.Errorf("%w: bad color", render.ErrRenderFailed),
		errors.New("database is locked"),
	}

	for _, renderErr := range errs {
		t.Run(renderErr.Error(), func(t *testing.T) {
			h := NewKRCodeHandler(&fakeRenderer{err: renderErr}, &fakeStyles{}, nil)

			for _, serve := range []http.HandlerFunc{h.PNG, h.SVG, h.Thumbnail} {
				rec := httptest.NewRecorder()
				serve(rec, newRequest(http.MethodGet, "/api/kr-codes/x/png", idParam("x")))

				assert.Equal(t, http.StatusNotFound, rec.Code)
				assert.Equal(t, "Not found", rec.Body.String())
				assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
				assert.Empty(t, rec.Header().Get("Content-Disposition"))
			}
		})
	}
}

func TestKRCodeHandler_FilenameIsSanitized(t *testing.T) {
	h := NewKRCodeHandler(&fakeRenderer{}, &fakeStyles{}, nil)

	rec := httptest.NewRecorder()
	h.PNG(rec, newRequest(http.MethodGet, "/", idParam(`a"b;c`)))

	assert.Equal(t, `attachment; filename="krcode-a_b_c.png"`, rec.Header().Get("Content-Disposition"))
}

func TestKRCodeHandler_Style(t *testing.T) {
	styles := &fakeStyles{codes: map[string]*krcodes.KRCode{
		"kr_1": {ID: "kr_1", Style: json.RawMessage(`{"fg":"#112233","size":"huge","ecLevel":"q"}`)},
	}}
	h := NewKRCodeHandler(&fakeRenderer{}, styles, nil)

	rec := httptest.NewRecorder()
	h.Style(rec, newRequest(http.MethodGet, "/api/kr-codes/kr_1/style", idParam("kr_1")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		ID    string                 `json:"id"`
		Style map[string]interface{} `json:"style"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kr_1", body.ID)
	assert.Equal(t, "#112233", body.Style["fg"])
	assert.Equal(t, "transparent", body.Style["bg"])
	assert.EqualValues(t, 240, body.Style["size"])
	assert.EqualValues(t, 2, body.Style["margin"])
	assert.Equal(t, "Q", body.Style["ecLevel"])
	assert.Nil(t, body.Style["logoUrl"])
	assert.NotContains(t, body.Style, "Defaulted")
}

func TestKRCodeHandler_StyleErrors(t *testing.T) {
	h := NewKRCodeHandler(&fakeRenderer{}, &fakeStyles{}, nil)
	rec := httptest.NewRecorder()
	h.Style(rec, newRequest(http.MethodGet, "/", idParam("missing")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)

	h = NewKRCodeHandler(&fakeRenderer{}, &fakeStyles{err: errors.New("disk I/O error")}, nil)
	rec = httptest.NewRecorder()
	h.Style(rec, newRequest(http.MethodGet, "/", idParam("kr_1")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk I/O")
}
