package audit

import (
	"log"
	"time"
)

type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Event is the record persisted for every repository mutation.
type Event struct {
	EventType  EventType `json:"event_type"`
	EntityType string    `json:"entity_type"` // "book" or "user"
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	UserUID    string    `json:"user_uid,omitempty"`
	Status     Status    `json:"status"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	Timestamp  string    `json:"timestamp"`
}

// Service provides high-level audit logging over an Auditor.
type Service struct {
	auditor *Auditor
}

func NewService(auditor *Auditor) *Service {
	return &Service{auditor: auditor}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event Event) {
	if s == nil || s.auditor == nil {
		return
	}
	event.Timestamp = time.Now().Format(time.RFC3339)
	go func() {
		if _, err := s.auditor.SaveJSON(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogBookCreate records a book creation event.
func (s *Service) LogBookCreate(bookID, ownerUID string, err error) {
	s.LogAsync(s.outcome(Event{
		EventType:  EventCreate,
		EntityType: "book",
		EntityID:   bookID,
		Action:     "book_create",
		UserUID:    ownerUID,
	}, err))
}

// LogBookDelete records a book deletion event.
func (s *Service) LogBookDelete(bookID, ownerUID string, err error) {
	s.LogAsync(s.outcome(Event{
		EventType:  EventDelete,
		EntityType: "book",
		EntityID:   bookID,
		Action:     "book_delete",
		UserUID:    ownerUID,
	}, err))
}

// LogUserCreate records a user creation event.
func (s *Service) LogUserCreate(userUID string, err error) {
	s.LogAsync(s.outcome(Event{
		EventType:  EventCreate,
		EntityType: "user",
		EntityID:   userUID,
		Action:     "user_create",
		UserUID:    userUID,
	}, err))
}

// LogUserUpdate records a profile or password mutation.
func (s *Service) LogUserUpdate(userUID, action string, err error) {
	s.LogAsync(s.outcome(Event{
		EventType:  EventUpdate,
		EntityType: "user",
		EntityID:   userUID,
		Action:     action,
		UserUID:    userUID,
	}, err))
}

func (s *Service) outcome(event Event, err error) Event {
	event.Status = StatusSuccess
	if err != nil {
		event.Status = StatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	return event
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
