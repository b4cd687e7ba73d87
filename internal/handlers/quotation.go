package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/diewo77/go-quotations/httpx"
	"github.com/diewo77/go-quotations/i18n"
	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/export"
	"github.com/diewo77/go-quotations/internal/live"
	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/pdf"
	"github.com/diewo77/go-quotations/internal/services"
	"github.com/diewo77/go-quotations/internal/syncengine"
	"github.com/diewo77/go-quotations/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuotationHandler serves bulk-quotation sessions over JSON.
type QuotationHandler struct {
	sessions *syncengine.Registry
	archive  *services.QuotationArchive
	hub      *live.Hub
	cfg      config.QuotationConfig
}

// NewQuotationHandler wires the handler. archive may be nil, in which case
// the archive endpoints answer 503; hub may be nil to disable live updates.
func NewQuotationHandler(sessions *syncengine.Registry, archive *services.QuotationArchive, hub *live.Hub, cfg config.QuotationConfig) *QuotationHandler {
	return &QuotationHandler{sessions: sessions, archive: archive, hub: hub, cfg: cfg}
}

type createRequest struct {
	Number   string            `json:"number"`
	Date     string            `json:"date"`
	TaxRate  *float64          `json:"tax_rate"`
	Columns  []models.Column   `json:"columns"`
	Customer map[string]string `json:"customer"`
}

type sessionResponse struct {
	ID    string           `json:"id"`
	State syncengine.State `json:"state"`
}

// liveMessage is pushed to websocket listeners.
type liveMessage struct {
	Type    string            `json:"type"`
	Event   syncengine.Kind   `json:"event,omitempty"`
	Updated []models.EntityID `json:"updated,omitempty"`
	State   syncengine.State  `json:"state"`
}

type eventResponse struct {
	Updated    []models.EntityID `json:"updated"`
	Violations map[string]string `json:"violations,omitempty"`
	State      syncengine.State  `json:"state"`
}

// Create starts a session for the configured companies.
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if req.TaxRate != nil {
		validation.NonNegativeFloat("tax_rate", *req.TaxRate, v)
	}
	if len(req.Columns) > 0 {
		v.Merge(services.ValidateSchema(req.Columns))
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", i18n.Localize(i18n.LangFrom(r.Context()), v))
		return
	}

	setup := syncengine.SetupFrom(h.cfg, req.Number, req.Date)
	if req.TaxRate != nil {
		setup.TaxRate = *req.TaxRate
	}
	setup.Columns = req.Columns
	setup.Customer = req.Customer

	s, err := h.sessions.Create(setup)
	if err != nil {
		log.Printf("create session: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "create_failed", nil)
		return
	}
	log.Printf("session %s created (%d dependents)", s.ID, len(setup.Dependents))
	httpx.JSON(w, http.StatusCreated, sessionResponse{ID: s.ID, State: s.State()})
}

// Show returns the current state of a session.
func (h *QuotationHandler) Show(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{ID: s.ID, State: s.State()})
}

// Apply decodes one event and applies it to the session.
func (h *QuotationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	body, err := httpx.ReadBody(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	lang := i18n.LangFrom(r.Context())
	ev, err := syncengine.DecodeEvent(body)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_event", err.Error())
		return
	}
	var publish []func(syncengine.Result)
	if h.hub != nil {
		publish = append(publish, func(res syncengine.Result) {
			h.hub.Publish(s.ID, liveMessage{Type: "applied", Event: ev.Kind(), Updated: res.Updated, State: res.State})
		})
	}
	res, err := s.Apply(ev, publish...)
	switch {
	case errors.Is(err, syncengine.ErrUnknownEntity):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_entity", i18n.T(lang, "unknown_entity"))
		return
	case errors.Is(err, syncengine.ErrInvalidEvent):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_event", err.Error())
		return
	case err != nil:
		log.Printf("session %s: apply %s: %v", s.ID, ev.Kind(), err)
		httpx.JSONError(w, http.StatusInternalServerError, "apply_failed", nil)
		return
	}
	if !res.Accepted() {
		httpx.JSON(w, http.StatusUnprocessableEntity, eventResponse{
			Updated:    []models.EntityID{},
			Violations: i18n.Localize(lang, res.Violations),
			State:      res.State,
		})
		return
	}
	httpx.JSON(w, http.StatusOK, eventResponse{Updated: res.Updated, State: res.State})
}

// Live streams accepted events of a session over a websocket. The first
// message carries the current state.
func (h *QuotationHandler) Live(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "live_disabled", nil)
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	conn, err := live.Accept(w, r)
	if err != nil {
		log.Printf("session %s: live upgrade: %v", s.ID, err)
		return
	}
	s.Watch(func(st syncengine.State) {
		if err := h.hub.Attach(s.ID, conn, liveMessage{Type: "snapshot", State: st}); err != nil {
			log.Printf("session %s: live snapshot: %v", s.ID, err)
		}
	})
}

// PDF renders one company's quotation.
func (h *QuotationHandler) PDF(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	q, found := s.State().Entity(models.EntityID(r.PathValue("entity")))
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "unknown_entity", i18n.T(i18n.LangFrom(r.Context()), "unknown_entity"))
		return
	}
	out, err := pdf.Render(q)
	if err != nil {
		log.Printf("render pdf %s/%s: %v", s.ID, q.ID, err)
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	httpx.Download(w, "application/pdf", fileName(q)+".pdf", true, out)
}

// Export writes every quotation of the session to one workbook.
func (h *QuotationHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := export.Workbook(s.State().Quotations())
	if err != nil {
		log.Printf("export %s: %v", s.ID, err)
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.Download(w, xlsxContentType, "quotations.xlsx", false, out)
}

// Archive stores the current snapshots of every quotation.
func (h *QuotationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "archive_disabled", nil)
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	recs, err := h.archive.SaveAll(r.Context(), s.ID, s.State().Quotations())
	if err != nil {
		log.Printf("archive %s: %v", s.ID, err)
		httpx.JSONError(w, http.StatusInternalServerError, "archive_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, recs)
}

// ListArchive returns the records archived for a session id. The session
// itself may already be gone.
func (h *QuotationHandler) ListArchive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "archive_disabled", nil)
		return
	}
	recs, err := h.archive.List(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("list archive: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "list_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, recs)
}

// Delete ends a session.
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.sessions.Delete(id); err != nil {
		h.notFound(w, r)
		return
	}
	if h.hub != nil {
		h.hub.CloseSession(id)
	}
	log.Printf("session %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuotationHandler) session(w http.ResponseWriter, r *http.Request) (*syncengine.Session, bool) {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.notFound(w, r)
		return nil, false
	}
	return s, true
}

func (h *QuotationHandler) notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusNotFound, "session_not_found", i18n.T(i18n.LangFrom(r.Context()), "session_not_found"))
}

func fileName(q models.Quotation) string {
	if q.Number != "" {
		return q.Number
	}
	return string(q.ID)
}
