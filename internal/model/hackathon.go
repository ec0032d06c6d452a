package model

import (
	"slices"
	"time"
)

// Hackathon is a time-boxed event that users join and submit work to.
//
// Fields:
//  ID           – allocated by the registry.
//  Title        – event title.
//  Description  – free text.
//  StartDate    – start date as given by the creator.
//  EndDate      – end date as given by the creator.
//  Creator      – identity of the owner.
//  Participants – registered identities; each appears at most once.
//  Submissions  – submissions in the order they were received.
type Hackathon struct {
	ID           uint64       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	Creator      Identity     `json:"creator"`
	Participants []Identity   `json:"participants"`
	Submissions  []Submission `json:"submissions"`
}

// Submission is one entry a participant handed in.
type Submission struct {
	Participant Identity  `json:"participant"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// HasParticipant reports whether id is registered for h.
func (h Hackathon) HasParticipant(id Identity) bool {
	return slices.Contains(h.Participants, id)
}

// Clone returns a deep copy of h.
func (h Hackathon) Clone() Hackathon {
	out := h
	if h.Participants != nil {
		out.Participants = append([]Identity(nil), h.Participants...)
	}
	if h.Submissions != nil {
		out.Submissions = append([]Submission(nil), h.Submissions...)
	}
	return out
}
