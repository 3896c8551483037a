package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/domoslabs/underwriter/api/responses"
	"github.com/domoslabs/underwriter/internal/audit"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/runner"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/domoslabs/underwriter/pkg/logger"
)

// Deals exposes the deal index and journey over HTTP.
type Deals struct {
	index       *dealstore.Index
	auditLogger *audit.Logger
	runner      *runner.Runner
	log         *logger.Logger
}

func NewDeals(index *dealstore.Index, auditLogger *audit.Logger, r *runner.Runner, log *logger.Logger) *Deals {
	return &Deals{index: index, auditLogger: auditLogger, runner: r, log: log}
}

// List handles GET /v1/deals.
func (d *Deals) List(w http.ResponseWriter, r *http.Request) {
	records, err := d.index.List(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}
	responses.WriteSuccess(w, records)
}

// Get handles GET /v1/deals/{id}.
func (d *Deals) Get(w http.ResponseWriter, r *http.Request) {
	record, err := d.index.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}

	status, err := d.auditLogger.Status(r.Context(), record.CanonicalPath)
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{
		"deal":    record,
		"journey": status,
	})
}

// Journey handles GET /v1/deals/{id}/journey.
func (d *Deals) Journey(w http.ResponseWriter, r *http.Request) {
	record, err := d.index.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}

	summary, err := d.auditLogger.Summarize(r.Context(), record.CanonicalPath)
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"summary": summary})
}

type advanceRequest struct {
	Stage int `json:"stage"`
}

// Advance handles POST /v1/deals/{id}/advance. It runs analysis stages up to
// the requested stage against the deal's canonical copy.
func (d *Deals) Advance(w http.ResponseWriter, r *http.Request) {
	record, err := d.index.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}

	var req advanceRequest
	if err := decodeJSON(r, &req); err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}

	stage, err := enums.ParseStageNumber(req.Stage)
	if err != nil {
		responses.WriteError(r.Context(), d.log, w,
			errors.Wrap(errors.CodeValidation, err, "invalid target stage"))
		return
	}

	result, err := d.runner.RunToStage(r.Context(), record.CanonicalPath, stage)
	if err != nil {
		responses.WriteError(r.Context(), d.log, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}
