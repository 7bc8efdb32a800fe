package controllers

import (
	"github.com/go-chi/chi/v5"
)

func newTestRouter() chi.Router {
	return chi.NewRouter()
}
