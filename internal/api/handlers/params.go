package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "kompi/internal/api/context"
)

func routeParam(r *http.Request, name string) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}
