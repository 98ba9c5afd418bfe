// Package collab records collaboration sessions: bounded discussions among
// roles about one escalated issue report, with an append-only message log.
package collab

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// MessageKind classifies a session message.
type MessageKind string

// Message kinds.
const (
	KindDiscussion    MessageKind = "discussion"
	KindPatchProposal MessageKind = "patch-proposal"
	KindValidation    MessageKind = "validation"
	KindEscalation    MessageKind = "escalation"
)

// String returns the string representation of the MessageKind.
func (k MessageKind) String() string {
	return string(k)
}

// Change is a proposed before/after text edit.
type Change struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Message is one entry of a session log. Seq starts at 1 and increases by one
// per message.
type Message struct {
	Seq     int         `json:"seq"`
	From    string      `json:"from"`
	Kind    MessageKind `json:"kind"`
	Content string      `json:"content"`
	Change  *Change     `json:"change,omitempty"`
	At      time.Time   `json:"at"`
}

// Session is a discussion among roles about one issue. A session has a single
// owner; it is not safe for concurrent use. The Store only guards the registry.
type Session struct {
	ID           string     `json:"id"`
	Topic        string     `json:"topic"`
	IssueID      string     `json:"issue_id,omitempty"`
	Participants []string   `json:"participants"`
	Messages     []Message  `json:"messages"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	Decision     string     `json:"decision,omitempty"`
	Resolved     bool       `json:"resolved"`

	now func() time.Time
}

func newSession(topic, issueID string, participants []string, now func() time.Time) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Topic:        topic,
		IssueID:      issueID,
		Participants: dedupe(participants),
		OpenedAt:     now(),
		now:          now,
	}
}

// Post appends a message. It returns ErrSessionClosed once the session is resolved.
func (s *Session) Post(from string, kind MessageKind, content string) (Message, error) {
	return s.append(from, kind, content, nil)
}

// Propose appends a patch proposal carrying change.
func (s *Session) Propose(from, content string, change Change) (Message, error) {
	return s.append(from, KindPatchProposal, content, &change)
}

func (s *Session) append(from string, kind MessageKind, content string, change *Change) (Message, error) {
	if s.Resolved {
		return Message{}, fmt.Errorf("%w: session %s", forgeerrors.ErrSessionClosed, s.ID)
	}
	msg := Message{
		Seq:     len(s.Messages) + 1,
		From:    from,
		Kind:    kind,
		Content: content,
		Change:  change,
		At:      s.now(),
	}
	s.Messages = append(s.Messages, msg)
	return msg, nil
}

// Close resolves the session with decision. Closing twice returns ErrSessionClosed
// and keeps the first decision.
func (s *Session) Close(decision string) error {
	if s.Resolved {
		return fmt.Errorf("%w: session %s", forgeerrors.ErrSessionClosed, s.ID)
	}
	closed := s.now()
	s.ClosedAt = &closed
	s.Decision = decision
	s.Resolved = true
	return nil
}

// Proposals returns the patch proposals in log order.
func (s *Session) Proposals() []Message {
	var out []Message
	for _, m := range s.Messages {
		if m.Kind == KindPatchProposal {
			out = append(out, m)
		}
	}
	return out
}

// Snapshot returns a deep copy safe to hand to another goroutine.
func (s *Session) Snapshot() Session {
	out := *s
	out.Participants = slices.Clone(s.Participants)
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if m.Change != nil {
			c := *m.Change
			m.Change = &c
		}
		out.Messages[i] = m
	}
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		out.ClosedAt = &t
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
