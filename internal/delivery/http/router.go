package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"coachcrm/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(meetingController *controllers.MeetingController) *http.ServeMux {
	mux := http.NewServeMux()

	// Meetings
	mux.HandleFunc("POST /meetings", meetingController.CreateMeeting)
	mux.HandleFunc("GET /meetings", meetingController.ListMeetings)
	mux.HandleFunc("GET /meetings/{meetingID}", meetingController.GetMeeting)
	mux.HandleFunc("PUT /meetings/{meetingID}", meetingController.UpdateMeeting)
	mux.HandleFunc("DELETE /meetings/{meetingID}", meetingController.DeleteMeeting)

	// Calendar
	mux.HandleFunc("GET /occurrences", meetingController.ListOccurrences)
	mux.HandleFunc("GET /occurrences/upcoming", meetingController.ListUpcomingOccurrences)
	mux.HandleFunc("GET /occurrences/on/{date}", meetingController.ListOccurrencesOnDate)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
