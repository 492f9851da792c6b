package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionMode string

const (
	ModeCreate SessionMode = "create"
	ModeEdit   SessionMode = "edit"
)

// Session owns exactly one draft for the duration of an editing session.
type Session struct {
	ID       string
	Kind     EntityKind
	Mode     SessionMode
	RecordID string

	Draft     Draft
	StepIndex int

	// NextBatch is the last upload batch sequence number handed out.
	NextBatch      uint64
	PendingUploads int
	Submitting     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCreateSession(kind EntityKind) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Mode:      ModeCreate,
		Draft:     NewDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewEditSession(kind EntityKind, recordID string, draft Draft) *Session {
	s := NewCreateSession(kind)
	s.Mode = ModeEdit
	s.RecordID = recordID
	s.Draft = draft
	return s
}

func (s *Session) Sequencer() StepSequencer {
	return RestoreStepSequencer(s.Kind, s.StepIndex)
}

func (s *Session) Advance() {
	s.StepIndex = s.Sequencer().Next().Index()
}

func (s *Session) Retreat() {
	s.StepIndex = s.Sequencer().Prev().Index()
}

// BeginUpload hands out the next batch sequence number and counts the batch as in flight.
func (s *Session) BeginUpload() uint64 {
	s.NextBatch++
	s.PendingUploads++
	return s.NextBatch
}

func (s *Session) EndUpload() {
	if s.PendingUploads > 0 {
		s.PendingUploads--
	}
}

// CanSubmit reports why a submission must wait, or nil.
func (s *Session) CanSubmit() error {
	if s.Submitting {
		return ErrSubmissionInProgress
	}
	if s.PendingUploads > 0 || s.Draft.HasPendingUploads() {
		return ErrUploadsPending
	}
	return nil
}

// Clone copies the session header. The draft is shared, which is safe because
// drafts are never modified in place.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
