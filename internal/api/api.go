// Package api exposes stored blueprints over a read-only local HTTP
// interface, for browsing a store from tooling that cannot shell out
// to the CLI.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/distro"
	"github.com/jodiecunningham/blueprint/pkg/errors"
	"github.com/jodiecunningham/blueprint/pkg/gensh"
	"github.com/jodiecunningham/blueprint/pkg/gitstore"
)

// API serves a single object store.
type API struct {
	store *gitstore.Store
}

// New returns an API over the given store.
func New(s *gitstore.Store) *API {
	return &API{store: s}
}

// Routes constructs the chi router containing all endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/blueprints", a.handleList)
	r.Get("/blueprints/{name}", a.handleShow)
	r.Get("/blueprints/{name}/sh", a.handleScript)

	return r
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := blueprint.List(a.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string][]string{"blueprints": names})
}

func (a *API) handleShow(w http.ResponseWriter, r *http.Request) {
	b, err := blueprint.Load(a.store, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := blueprint.Encode(b)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleScript renders the blueprint as a shell script. Release
// detection is skipped on purpose: the requester's release is unknown,
// so release-conditional repair steps are omitted.
func (a *API) handleScript(w http.ResponseWriter, r *http.Request) {
	b, err := blueprint.Load(a.store, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	script, err := gensh.Generate(b, distro.Release{})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/x-shellscript")
	w.Write([]byte(script.String()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, errors.ErrCodeNotFound) {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": errors.UserMessage(err)})
}
