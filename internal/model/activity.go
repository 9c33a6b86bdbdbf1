package model

import "time"

// Действия, которые пишутся в журнал активности.
const (
	ActionNoteCreated = "note_created"
	ActionNoteUpdated = "note_updated"
	ActionNoteDeleted = "note_deleted"
)

// Activity запись журнала activities.json.
type Activity struct {
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	NoteID    int64     `json:"noteId"`
	Timestamp time.Time `json:"timestamp"`
}
