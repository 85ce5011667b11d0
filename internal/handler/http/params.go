package http

import (
	"net/http"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// idParam reads a UUID path parameter. A malformed id cannot match any
// record, so it is reported with notFound.
func idParam(w http.ResponseWriter, r *http.Request, name string, notFound error) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}

// monthYearParams reads {month} and {year} path parameters.
func monthYearParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	month, year, err := validator.ParseMonthYear(chi.URLParam(r, "month"), chi.URLParam(r, "year"))
	if err != nil {
		response.HandleError(w, err)
		return 0, 0, false
	}
	return month, year, true
}
