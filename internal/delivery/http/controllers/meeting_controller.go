package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"coachcrm/internal/delivery/http/helpers"
	"coachcrm/internal/domain"
)

// MeetingRequest is the request body for POST /meetings and PUT /meetings/{meetingID}.
type MeetingRequest struct {
	// ID, CreatedAt and UpdatedAt are returned by GET and ignored on write; the
	// path and the server own them.
	ID        string     `json:"id,omitempty" swaggerignore:"true"`
	CreatedAt *time.Time `json:"created_at,omitempty" swaggerignore:"true"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" swaggerignore:"true"`

	Title             string    `json:"title"`
	Description       *string   `json:"description"`
	MeetingLink       *string   `json:"meeting_link"`
	Location          *string   `json:"location"`
	ScheduledAt       time.Time `json:"scheduled_at"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurrencePattern *string   `json:"recurrence_pattern"`
	RecurrenceDay     *string   `json:"recurrence_day"`
	// RecurrenceEndDate is a calendar date, YYYY-MM-DD. The RFC 3339 form returned
	// by GET is accepted too so a fetched meeting can be sent back unchanged.
	RecurrenceEndDate *string `json:"recurrence_end_date"`
}

// Validate implements Validator. Recurrence rules are checked by the service.
func (m MeetingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, "title is required")
	}
	if m.ScheduledAt.IsZero() {
		errs = append(errs, "scheduled_at is required")
	}
	if m.RecurrenceEndDate != nil && *m.RecurrenceEndDate != "" {
		if _, err := helpers.ParseCalendarDate(*m.RecurrenceEndDate, time.UTC); err != nil {
			errs = append(errs, "recurrence_end_date must be YYYY-MM-DD")
		}
	}
	return errs
}

// toMeeting maps the request onto a domain meeting. The end date is read in the
// location of scheduled_at so both share a calendar.
func (m MeetingRequest) toMeeting() *domain.Meeting {
	now := time.Now()
	meeting := domain.NewMeeting(strings.TrimSpace(m.Title), m.ScheduledAt, now, now)
	meeting.Description = m.Description
	meeting.MeetingLink = m.MeetingLink
	meeting.Location = m.Location
	meeting.IsRecurring = m.IsRecurring
	meeting.RecurrencePattern = m.RecurrencePattern
	meeting.RecurrenceDay = m.RecurrenceDay
	if m.RecurrenceEndDate != nil && *m.RecurrenceEndDate != "" {
		if end, err := helpers.ParseCalendarDate(*m.RecurrenceEndDate, m.ScheduledAt.Location()); err == nil {
			meeting.RecurrenceEndDate = &end
		}
	}
	return meeting
}

// MeetingSuccessResponse is the success response envelope for single-meeting endpoints.
type MeetingSuccessResponse struct {
	Data  *domain.Meeting   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMeetingsResponse is the data payload for GET /meetings.
type ListMeetingsResponse struct {
	Items      []*domain.Meeting      `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListMeetingsSuccessResponse is the success response envelope for GET /meetings (200).
type ListMeetingsSuccessResponse struct {
	Data  ListMeetingsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// OccurrencesSuccessResponse is the success response envelope for occurrence listings (200).
type OccurrencesSuccessResponse struct {
	Data  []domain.Occurrence `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type MeetingController struct {
	Logger  *slog.Logger
	Service domain.MeetingService
	// Location is the calendar used for date-only parameters and for "today".
	Location *time.Location
	Now      func() time.Time
}

func NewMeetingController(logger *slog.Logger, svc domain.MeetingService, loc *time.Location) *MeetingController {
	if loc == nil {
		loc = time.Local
	}
	return &MeetingController{
		Logger:   logger,
		Service:  svc,
		Location: loc,
		Now:      time.Now,
	}
}

func (c *MeetingController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// writeServiceError maps service errors onto HTTP responses.
func (c *MeetingController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "meeting not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.serverError(w, r, err)
	}
}

// meetingID reads and validates the {meetingID} path value. On failure it writes a 400 and returns false.
func meetingID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("meetingID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing meetingID")
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "meetingID must be a UUID")
		return "", false
	}
	return id, true
}

// CreateMeeting godoc
// @Summary Create a meeting
// @Description Create a one-off or recurring meeting. Recurring meetings need recurrence_pattern (weekly, biweekly, monthly), recurrence_day (Sunday..Saturday) and recurrence_end_date (YYYY-MM-DD).
// @Tags meetings
// @Accept json
// @Produce json
// @Param meeting body MeetingRequest true "Meeting data"
// @Success 201 {object} controllers.MeetingSuccessResponse "data contains the created meeting"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings [post]
func (c *MeetingController) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req MeetingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	meeting := req.toMeeting()
	if err := c.Service.CreateMeeting(r.Context(), meeting); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, meeting)
}

// ListMeetings godoc
// @Summary List meetings
// @Description Returns stored meetings ordered by scheduled_at, one page at a time.
// @Tags meetings
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListMeetingsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings [get]
func (c *MeetingController) ListMeetings(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	meetings, total, err := c.Service.ListMeetings(r.Context(), params)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMeetingsResponse{
		Items:      meetings,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetMeeting godoc
// @Summary Get a meeting by ID
// @Tags meetings
// @Produce json
// @Param meetingID path string true "Meeting ID (UUID)"
// @Success 200 {object} controllers.MeetingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings/{meetingID} [get]
func (c *MeetingController) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}
	meeting, err := c.Service.GetMeeting(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meeting)
}

// UpdateMeeting godoc
// @Summary Replace a meeting
// @Description Replaces every editable field of the meeting. Turning is_recurring off clears the recurrence fields.
// @Tags meetings
// @Accept json
// @Produce json
// @Param meetingID path string true "Meeting ID (UUID)"
// @Param meeting body MeetingRequest true "Meeting data"
// @Success 200 {object} controllers.MeetingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings/{meetingID} [put]
func (c *MeetingController) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}
	var req MeetingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	meeting := req.toMeeting()
	meeting.ID = id
	updated, err := c.Service.UpdateMeeting(r.Context(), meeting)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteMeeting godoc
// @Summary Delete a meeting
// @Description Deletes the meeting; its occurrences disappear from every calendar query.
// @Tags meetings
// @Param meetingID path string true "Meeting ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings/{meetingID} [delete]
func (c *MeetingController) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteMeeting(r.Context(), id); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOccurrences godoc
// @Summary List meeting occurrences
// @Description Expands every meeting into concrete occurrences sorted by occurrence_date. With from and to (YYYY-MM-DD, both inclusive) only occurrences in that window are returned.
// @Tags occurrences
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} controllers.OccurrencesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /occurrences [get]
func (c *MeetingController) ListOccurrences(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if (fromStr == "") != (toStr == "") {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from and to must be given together")
		return
	}
	var from, to *time.Time
	if fromStr != "" {
		f, err := helpers.ParseDate(fromStr, c.Location)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from: "+err.Error())
			return
		}
		t, err := helpers.ParseDate(toStr, c.Location)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to: "+err.Error())
			return
		}
		if t.Before(f) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must not be before from")
			return
		}
		// Cover the whole last day.
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		from, to = &f, &t
	}
	occurrences, err := c.Service.ListOccurrences(r.Context(), from, to)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, occurrences)
}

// ListUpcomingOccurrences godoc
// @Summary List upcoming occurrences
// @Description Occurrences from the start of today onwards; earlier sessions today are included.
// @Tags occurrences
// @Produce json
// @Success 200 {object} controllers.OccurrencesSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /occurrences/upcoming [get]
func (c *MeetingController) ListUpcomingOccurrences(w http.ResponseWriter, r *http.Request) {
	occurrences, err := c.Service.ListUpcoming(r.Context(), c.Now().In(c.Location))
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, occurrences)
}

// ListOccurrencesOnDate godoc
// @Summary List occurrences on a day
// @Tags occurrences
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} controllers.OccurrencesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /occurrences/on/{date} [get]
func (c *MeetingController) ListOccurrencesOnDate(w http.ResponseWriter, r *http.Request) {
	date, err := helpers.ParseDate(r.PathValue("date"), c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	occurrences, err := c.Service.ListOnDate(r.Context(), date)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, occurrences)
}
