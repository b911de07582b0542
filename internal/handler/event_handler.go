package handler

import (
	"net/http"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/service"
)

// EventHandler handles POST /api/events.
type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type createEventRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	ProjectID   int64   `json:"project_id"`
	EmployeeIDs []int64 `json:"employee_ids"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	start, err := parseDate("start", req.Start)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	end, err := parseDate("end", req.End)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out, err := h.eventService.Create(r.Context(), model.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		ProjectID:   req.ProjectID,
		EmployeeIDs: req.EmployeeIDs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Event created", out)
}
