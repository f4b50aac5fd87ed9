package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/julienschmidt/httprouter"

	apiContext "kompi/internal/api/context"
)

func newRequest(method, target string, params ...httprouter.Param) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), apiContext.Params, httprouter.Params(params))
	return req.WithContext(ctx)
}
