package handlers

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes wires every HTTP endpoint onto the router.
func RegisterRoutes(h *Handler, r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Content distribution scheduler
	r.HandleFunc("/api/automation/simple", h.AutomationSimple).Methods("POST")
	r.HandleFunc("/api/automation/simple/preview", h.AutomationPreview).Methods("POST")
	r.HandleFunc("/api/posts/schedule", h.SchedulePosts).Methods("POST")

	// External publisher surface
	r.HandleFunc("/api/posts/due", h.ListDuePosts).Methods("GET")
	r.HandleFunc("/api/posts/{id}/status", h.UpdatePostStatus).Methods("PUT")

	// Library / account / tag glue
	r.HandleFunc("/api/content", h.ListContent).Methods("GET")
	r.HandleFunc("/api/content", h.CreateContent).Methods("POST")
	r.HandleFunc("/api/content/{id}", h.GetContent).Methods("GET")
	r.HandleFunc("/api/social-accounts", h.ListAccounts).Methods("GET")
	r.HandleFunc("/api/social-accounts", h.CreateAccount).Methods("POST")
	r.HandleFunc("/api/tags", h.ListTags).Methods("GET")
	r.HandleFunc("/api/tags", h.CreateTag).Methods("POST")

	// Realtime events
	r.HandleFunc("/ws/events", h.EventsWebSocket)
}
