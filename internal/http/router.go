package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Users        *UserHandler
	Availability *AvailabilityHandler
	Meetings     *MeetingHandler
	Calendar     *CalendarHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	if cfg.Users != nil {
		router.HandleFunc("/users", cfg.Users.List).Methods(http.MethodGet)
		router.HandleFunc("/users", cfg.Users.Create).Methods(http.MethodPost)
		router.HandleFunc("/users/{id}", cfg.Users.Get).Methods(http.MethodGet)
	}

	if cfg.Availability != nil {
		router.HandleFunc("/users/{id}/availability", cfg.Availability.Get).Methods(http.MethodGet)
		router.HandleFunc("/users/{id}/availability", cfg.Availability.Reset).Methods(http.MethodDelete)
		router.HandleFunc("/users/{id}/availability/range", cfg.Availability.UpdateRange).Methods(http.MethodPut)
		router.HandleFunc("/users/{id}/availability/days/{date}", cfg.Availability.Day).Methods(http.MethodGet)
		router.HandleFunc("/users/{id}/availability/slots", cfg.Availability.CreateSlot).Methods(http.MethodPost)
		router.HandleFunc("/users/{id}/availability/slots/{slotId}", cfg.Availability.DeleteSlot).Methods(http.MethodDelete)
	}

	if cfg.Meetings != nil {
		router.HandleFunc("/meetings", cfg.Meetings.Create).Methods(http.MethodPost)
		router.HandleFunc("/meetings/conflicts", cfg.Meetings.CheckConflicts).Methods(http.MethodPost)
		router.HandleFunc("/users/{id}/notifications", cfg.Meetings.Notifications).Methods(http.MethodGet)
	}

	if cfg.Calendar != nil {
		router.HandleFunc("/users/{id}/calendar", cfg.Calendar.Feed).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
