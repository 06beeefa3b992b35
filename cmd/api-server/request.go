package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/shift-tracker/internal/model"
)

const (
	_customTimeLayout = "2006-01-02 15:04:05 MST"
	_dateLayout       = "2006-01-02"
)

func sessionIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "sessionId"))
	return model.ID(id), err
}

func timeQueryParams(r *http.Request, key string, layout ...string) (time.Time, bool, error) {
	layout = append(layout, _customTimeLayout)
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return time.Time{}, false, nil
	}
	val = strings.TrimPrefix(val, "'")
	val = strings.TrimPrefix(val, "\"")
	val = strings.TrimSuffix(val, "'")
	val = strings.TrimSuffix(val, "\"")
	t, err := time.Parse(layout[0], val)
	return t, true, err
}

func defaultIntQueryParams(r *http.Request, key string, def int) int {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

// hasJSONBody reports whether the request carries a body worth decoding.
// Several operations (pause, check-in) accept an entirely optional body.
func hasJSONBody(r *http.Request) bool {
	return r.ContentLength > 0
}
