package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/migration"
	"github.com/goliatone/go-site-configurator/internal/preview"
	"github.com/goliatone/go-site-configurator/internal/util"
)

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 1 << 20

var logoFields = []string{"file", "logo"}

type migrateResponse struct {
	SiteID     string     `json:"siteId"`
	DraftID    string     `json:"draftId"`
	MigratedAt *time.Time `json:"migratedAt"`
}

func (api *API) createDraft(w http.ResponseWriter, r *http.Request) {
	var req drafts.CreateDraftInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	draft, err := api.drafts.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, draft)
}

func (api *API) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := api.drafts.Get(r.Context(), urlParam(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, draft)
}

func (api *API) updateDraft(w http.ResponseWriter, r *http.Request) {
	var req drafts.UpdateDraftInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	draft, err := api.drafts.Update(r.Context(), urlParam(chi.URLParam(r, "id")), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, draft)
}

func (api *API) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := api.drafts.Delete(r.Context(), urlParam(chi.URLParam(r, "id"))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := api.drafts.GenerateSiteConfig(r.Context(), urlParam(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (api *API) customizeConfig(w http.ResponseWriter, r *http.Request) {
	var override domain.SiteConfig
	if err := decodeJSON(r, &override); err != nil {
		writeError(w, badRequest(err))
		return
	}
	cfg, err := api.drafts.CustomizeConfig(r.Context(), urlParam(chi.URLParam(r, "id")), override)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (api *API) getPreview(w http.ResponseWriter, r *http.Request) {
	id := urlParam(chi.URLParam(r, "id"))
	cfg, err := api.drafts.GenerateSiteConfig(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	etag := preview.GenerateETag(cfg)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	payload, err := api.preview.GeneratePreviewJSON(r.Context(), cfg)
	if err != nil {
		logging.WithDraft(api.logger, id, "").Warn("preview failed", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(api.cacheMaxAge/time.Second)))
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	writeData(w, http.StatusOK, payload)
}

func (api *API) uploadLogo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := urlParam(chi.URLParam(r, "id"))
	if _, err := api.drafts.Get(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	limit := api.uploads.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, apperrors.Validation(fmt.Sprintf("File size exceeds maximum of %dMB", limit/(1<<20))))
			return
		}
		writeError(w, apperrors.Validation("No file provided"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	header := firstFile(r.MultipartForm)
	if header == nil {
		writeError(w, apperrors.Validation("No file provided"))
		return
	}
	file, err := header.Open()
	if err != nil {
		writeError(w, apperrors.Validation("No file provided"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	logo, err := api.uploads.Save(ctx, header.Filename, mimeType, file)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := api.drafts.SetLogo(ctx, id, *logo); err != nil {
		_ = api.uploads.Delete(logo.Filename)
		writeError(w, err)
		return
	}
	logging.WithDraft(api.logger, id, "").Info("logo uploaded", "file", logo.Filename, "size", logo.Size)
	writeData(w, http.StatusOK, logo)
}

func firstFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, field := range logoFields {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	for _, files := range form.File {
		if len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func (api *API) migrateDraft(w http.ResponseWriter, r *http.Request) {
	var req migration.Input
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	id := urlParam(chi.URLParam(r, "id"))
	result := api.migrator.Migrate(r.Context(), id, req)
	if !result.Success {
		err := result.Err
		if err == nil {
			err = apperrors.Operation(apperrors.CodeMigration, util.FirstNonEmpty(result.Error, "Migration failed"))
		}
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, migrateResponse{
		SiteID:     result.SiteID,
		DraftID:    result.DraftID,
		MigratedAt: result.MigratedAt,
	})
}
