package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/application"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

const requestTimeout = 10 * time.Second

type RootFolderHTTPHandler struct {
	service *application.RootFolderService
}

func NewRootFolderHTTPHandler(service *application.RootFolderService) *RootFolderHTTPHandler {
	return &RootFolderHTTPHandler{service: service}
}

type addRootFolderRequest struct {
	Path string `json:"path"`
}

func (h *RootFolderHTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		folders []domain.RootFolder
		err     error
	)
	if unmapped, _ := strconv.ParseBool(r.URL.Query().Get("unmapped")); unmapped {
		folders, err = h.service.AllWithUnmappedFolders(ctx)
	} else {
		folders, err = h.service.All(ctx)
	}
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *RootFolderHTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "rootFolderID"))
	if err != nil {
		http.Error(w, "invalid root folder id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	folder, err := h.service.Get(ctx, id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (h *RootFolderHTTPHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRootFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	folder, err := h.service.Add(ctx, domain.RootFolder{Path: req.Path})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

func (h *RootFolderHTTPHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "rootFolderID"))
	if err != nil {
		http.Error(w, "invalid root folder id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Remove(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RootFolderHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Route("/rootfolders", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)
		r.Get("/{rootFolderID}", h.HandleGet)
		r.Delete("/{rootFolderID}", h.HandleRemove)
	})
}

// RequestID copia o id gerado pelo middleware do chi para o contexto usado nos logs.
func RequestID(next http.Handler) http.Handler {
	return middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := pkgApp.ContextWithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	}))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidPath), errors.Is(err, domain.ErrFolderNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrFolderExists), errors.Is(err, domain.ErrDownloadFolder):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrRootFolderNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
