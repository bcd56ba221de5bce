package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// API serves the document and media endpoints next to the websocket.
type API struct {
	workspace *app.Workspace
	ws        *WSHandler
	log       *zap.Logger
}

func NewAPI(workspace *app.Workspace, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		workspace: workspace,
		ws:        NewWSHandler(workspace, log),
		log:       log.Named("api"),
	}
}

// Routes registers every endpoint on mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/ws", a.ws.ServeWS)

	mux.HandleFunc("GET /documents", a.listDocuments)
	mux.HandleFunc("POST /documents", a.createDocument)
	mux.HandleFunc("GET /documents/{id}", a.getDocument)
	mux.HandleFunc("DELETE /documents/{id}", a.deleteDocument)

	mux.HandleFunc("GET /media", a.listMedia)
	mux.HandleFunc("DELETE /media/{path...}", a.deleteMedia)
}

// Handler returns a mux with all routes registered.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Routes(mux)
	return mux
}

func (a *API) listDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := a.workspace.List(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid json body"})
			return
		}
	}
	doc, err := a.workspace.Create(r.Context(), body.Name)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (a *API) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := a.workspace.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *API) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := a.workspace.Delete(r.Context(), r.PathValue("id")); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listMedia(w http.ResponseWriter, r *http.Request) {
	files, err := a.workspace.MediaFiles(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (a *API) deleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := a.workspace.DeleteMediaFile(r.Context(), r.PathValue("path")); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentOpen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPath), errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
