// Package http exposes the configurator services over a chi router.
//
// Routes:
//   - Drafts: /api/drafts, /api/drafts/{id}, /api/drafts/{id}/config,
//     /api/drafts/{id}/preview, /api/drafts/{id}/logo, /api/drafts/{id}/migrate
//   - Publishing: /api/sites/{siteId}/publish
//   - Catalogue: /api/templates
//   - Published sites: /p/{siteId}, /p/{siteId}/styles.css, /p/{siteId}/assets/*
//   - Uploads: /uploads/{file}
//   - Health: /health, plus /api/debug/drafts when debug is enabled
//
// JSON responses use the {success, data} envelope; failures carry
// {success:false, error:{code, message, issues}}.
package http
