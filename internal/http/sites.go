package http

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/media"
	"github.com/goliatone/go-site-configurator/internal/publish"
)

// uploadsCSP keeps uploaded files inert when opened directly.
const uploadsCSP = "default-src 'none'; style-src 'unsafe-inline'; sandbox"

func (api *API) publishSite(w http.ResponseWriter, r *http.Request) {
	result, err := api.publisher.Publish(r.Context(), urlParam(chi.URLParam(r, "siteId")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (api *API) servePublishedHTML(w http.ResponseWriter, r *http.Request) {
	html, err := api.publisher.ReadHTML(chi.URLParam(r, "siteId"))
	if err != nil {
		api.writePublishedError(w, err, "Site not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (api *API) servePublishedCSS(w http.ResponseWriter, r *http.Request) {
	css, err := api.publisher.ReadCSS(chi.URLParam(r, "siteId"))
	if err != nil {
		api.writePublishedError(w, err, "CSS not found")
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(css)
}

func (api *API) servePublishedAsset(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteId")
	asset := chi.URLParam(r, "*")
	f, err := api.publisher.OpenAsset(siteID, asset)
	if err != nil {
		api.writePublishedError(w, err, "Asset not found")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		api.writePublishedError(w, err, "Asset not found")
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, path.Base(asset), info.ModTime(), f)
}

func (api *API) writePublishedError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, publish.ErrInvalidAssetPath):
		api.logger.Warn("rejected published asset path", "error", err)
		writeFailure(w, http.StatusForbidden, "FORBIDDEN", "Invalid asset path")
	case errors.Is(err, publish.ErrNotPublished),
		errors.Is(err, publish.ErrAssetNotFound),
		errors.Is(err, publish.ErrInvalidSiteID):
		writeFailure(w, http.StatusNotFound, apperrors.CodeNotFound, notFound)
	default:
		api.logger.Error("failed to read published site", "error", err)
		writeFailure(w, http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error")
	}
}

func (api *API) serveUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	f, err := api.uploads.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrInvalidName):
			writeFailure(w, http.StatusForbidden, "FORBIDDEN", "Invalid file name")
		case errors.Is(err, media.ErrFileNotFound):
			writeFailure(w, http.StatusNotFound, apperrors.CodeNotFound, "File not found")
		default:
			api.logger.Error("failed to open upload", "file", name, "error", err)
			writeFailure(w, http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error")
		}
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeFailure(w, http.StatusNotFound, apperrors.CodeNotFound, "File not found")
		return
	}
	contentType := media.ContentType(info.Name())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", uploadsCSP)
	if !strings.HasPrefix(contentType, "image/") {
		w.Header().Set("Content-Disposition", "attachment")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
