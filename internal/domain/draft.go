package domain

import (
	"slices"
	"time"
)

// Draft is an in-progress wizard submission with a bounded lifetime.
type Draft struct {
	ID         string       `json:"id"`
	BrandName  string       `json:"brandName"`
	Industry   string       `json:"industry"`
	Logo       *Logo        `json:"logo,omitempty"`
	TemplateID string       `json:"templateId,omitempty"`
	Steps      []WizardStep `json:"steps"`
	Config     *SiteConfig  `json:"config,omitempty"`
	ExpiresAt  *time.Time   `json:"expiresAt,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Logo is an uploaded brand image owned by one draft.
type Logo struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Path         string    `json:"path"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type WizardStep struct {
	StepNumber int            `json:"stepNumber"`
	StepType   StepType       `json:"stepType"`
	Data       map[string]any `json:"data"`
	Completed  bool           `json:"completed"`
}

// Expired reports whether the draft has passed its expiry at now.
func (d *Draft) Expired(now time.Time) bool {
	if d == nil || d.ExpiresAt == nil {
		return false
	}
	return !now.Before(*d.ExpiresAt)
}

// Clone returns a deep copy safe to hand out of a store.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := *d
	if d.Logo != nil {
		logo := *d.Logo
		out.Logo = &logo
	}
	if d.Steps != nil {
		out.Steps = slices.Clone(d.Steps)
		for i := range out.Steps {
			out.Steps[i].Data = CloneContent(out.Steps[i].Data)
		}
	}
	if d.Config != nil {
		cfg := d.Config.Clone()
		out.Config = &cfg
	}
	if d.ExpiresAt != nil {
		expires := *d.ExpiresAt
		out.ExpiresAt = &expires
	}
	return &out
}

// PermanentSite is the snapshot handed to the external sites API on migration.
type PermanentSite struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	DraftID     string         `json:"draftId"`
	BrandName   string         `json:"brandName"`
	Industry    string         `json:"industry"`
	Logo        *PermanentLogo `json:"logo,omitempty"`
	Config      SiteConfig     `json:"config"`
	IsTemporary bool           `json:"isTemporary"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type PermanentLogo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
