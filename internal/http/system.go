package http

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-site-configurator/internal/adapters"
)

const healthProbeTimeout = 2 * time.Second

type healthResponse struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Storage           string `json:"storage,omitempty"`
	Renderer          string `json:"renderer,omitempty"`
	RendererAvailable bool   `json:"rendererAvailable"`
}

type industryTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Version  int    `json:"version"`
}

type templatesResponse struct {
	Industries []industryTemplate  `json:"industries"`
	Templates  []adapters.Template `json:"templates"`
}

type debugDraft struct {
	ID        string     `json:"id"`
	BrandName string     `json:"brandName"`
	Industry  string     `json:"industry"`
	HasConfig bool       `json:"hasConfig"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type debugDraftsResponse struct {
	Count  int          `json:"count"`
	Drafts []debugDraft `json:"drafts"`
}

// health always answers 200; renderer availability is informational since
// rendering degrades to the local fallback.
func (api *API) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Service: serviceName}
	if api.backend != nil {
		resp.Storage = string(api.backend.Backend())
	}
	if api.adapter != nil {
		resp.Renderer = string(api.adapter.Kind())
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		resp.RendererAvailable = api.adapter.IsAvailable(ctx)
		cancel()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *API) listTemplates(w http.ResponseWriter, r *http.Request) {
	resp := templatesResponse{
		Industries: []industryTemplate{},
		Templates:  []adapters.Template{},
	}
	if api.templates != nil {
		for _, tpl := range api.templates.GetAllTemplates() {
			resp.Industries = append(resp.Industries, industryTemplate{
				ID:       tpl.ID(),
				Name:     tpl.Name(),
				Industry: tpl.Industry(),
				Version:  tpl.Version(),
			})
		}
	}
	if api.adapter != nil {
		list, err := api.adapter.GetAvailableTemplates(r.Context())
		if err != nil {
			api.logger.Warn("failed to list renderer templates", "error", err)
		} else if list != nil {
			resp.Templates = list
		}
	}
	writeData(w, http.StatusOK, resp)
}

func (api *API) debugDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := api.drafts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := debugDraftsResponse{Drafts: make([]debugDraft, 0, len(list))}
	for _, draft := range list {
		resp.Drafts = append(resp.Drafts, debugDraft{
			ID:        draft.ID,
			BrandName: draft.BrandName,
			Industry:  draft.Industry,
			HasConfig: draft.Config != nil,
			CreatedAt: draft.CreatedAt,
			ExpiresAt: draft.ExpiresAt,
		})
	}
	resp.Count = len(resp.Drafts)
	writeData(w, http.StatusOK, resp)
}
