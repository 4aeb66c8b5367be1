package handlers

import (
	"net/http"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/taskfile"
)

// ListResponse is the dashboard listing.
type ListResponse struct {
	Recurring []RecurringView `json:"recurring"`
	OneOff    []OneOffView    `json:"oneoff"`
	Now       string          `json:"now"`
}

// RecurringView is a recurring task with its due state.
type RecurringView struct {
	Description string           `json:"description"`
	Freq        models.Frequency `json:"freq"`
	Last        string           `json:"last"`
	Due         bool             `json:"due"`
	NextDue     *string          `json:"nextDue"`
	MinsLate    *int             `json:"minsLate"`
	Overdue     string           `json:"overdue,omitempty"`
}

type OneOffView struct {
	Description string `json:"description"`
}

// DueResponse lists the descriptions of everything that needs doing now.
type DueResponse struct {
	Tasks []string `json:"tasks"`
}

func newRecurringView(t models.Task) RecurringView {
	v := RecurringView{
		Description: t.Description,
		Freq:        t.Frequency,
		Last:        taskfile.Never,
		Due:         t.Due,
		MinsLate:    t.MinutesLate,
	}
	if t.LastCompleted != nil {
		v.Last = t.LastCompleted.Format(taskfile.TimeLayout)
	}
	if t.NextDue != nil {
		next := t.NextDue.Format(time.RFC3339)
		v.NextDue = &next
	}
	if t.MinutesLate != nil {
		v.Overdue = models.OverdueLabel(*t.MinutesLate)
	}
	return v
}

func newListResponse(l *models.Listing) ListResponse {
	resp := ListResponse{
		Recurring: make([]RecurringView, 0, len(l.Recurring)),
		OneOff:    make([]OneOffView, 0, len(l.OneOff)),
		Now:       l.Now.Format(time.RFC3339),
	}
	for _, t := range l.Recurring {
		resp.Recurring = append(resp.Recurring, newRecurringView(t))
	}
	for _, t := range l.OneOff {
		resp.OneOff = append(resp.OneOff, OneOffView{Description: t.Description})
	}
	return resp
}

// List returns recurring tasks in display order and one-off tasks in file order.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.store.List(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newListResponse(listing))
}

// Due returns one-off tasks and due recurring tasks in file order.
func (h *Handlers) Due(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Due(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	resp := DueResponse{Tasks: make([]string, 0, len(tasks))}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, t.Description)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
