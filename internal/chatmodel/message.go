// Package chatmodel defines the shared Message and Session types that flow
// through the chat extraction pipeline (C2-C5).
package chatmodel

import (
	"fmt"
	"strings"
)

// Role identifies which side of the conversation produced a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one bubble in the IDE's chat store, projected down to the
// fields the journal pipeline is allowed to see. Internal reasoning
// (thinking.text) and tool-call payloads (toolFormerData) never reach this
// type — they are dropped at extraction in internal/session.
//
// bubbleId is the identity key. Content hashing (text+role+timestamp) is
// unsafe: a user typing "stop" twice in one session produces two messages
// identical in every field except bubbleId.
type Message struct {
	BubbleID    string
	ComposerID  string
	Role        Role
	Text        string
	TimestampMS int64
}

// NewMessage validates and constructs a Message. It trims Text and returns
// an error if BubbleID, ComposerID, or the trimmed Text is empty — callers
// that extract from a data store should skip rather than propagate this
// error, matching the "empty rows never reach downstream" contract of C3.
func NewMessage(bubbleID, composerID string, role Role, text string, timestampMS int64) (Message, error) {
	trimmed := strings.TrimSpace(text)
	if bubbleID == "" {
		return Message{}, fmt.Errorf("chatmodel: empty bubbleId")
	}
	if composerID == "" {
		return Message{}, fmt.Errorf("chatmodel: empty composerId for bubble %s", bubbleID)
	}
	if trimmed == "" {
		return Message{}, fmt.Errorf("chatmodel: empty text for bubble %s", bubbleID)
	}
	return Message{
		BubbleID:    bubbleID,
		ComposerID:  composerID,
		Role:        role,
		Text:        trimmed,
		TimestampMS: timestampMS,
	}, nil
}

// Session is one conversation thread. Messages preserve the database's
// native insertion order, not timestamp order — conversation turn order
// must survive every transformation downstream.
type Session struct {
	ComposerID    string
	CreatedAt     int64
	LastUpdatedAt int64
	Messages      []Message
}

// Overlaps reports whether the session overlaps the half-open-by-contract
// window per spec: lastUpdatedAt > window.start AND createdAt < window.end.
func (s Session) Overlaps(startMS, endMS int64) bool {
	return s.LastUpdatedAt > startMS && s.CreatedAt < endMS
}

// SortKey is the deterministic ordering used to merge messages from
// multiple sessions: (timestamp, composerId). Timestamps collide routinely
// between parallel sessions to the millisecond; composerId is the
// tiebreaker that makes merged output reproducible.
type SortKey struct {
	TimestampMS int64
	ComposerID  string
}

func (m Message) SortKey() SortKey {
	return SortKey{TimestampMS: m.TimestampMS, ComposerID: m.ComposerID}
}

// Less implements the total order used by sort.Slice across all merge
// points (C3, C5): timestamp first, composerId breaks ties.
func (k SortKey) Less(other SortKey) bool {
	if k.TimestampMS != other.TimestampMS {
		return k.TimestampMS < other.TimestampMS
	}
	return k.ComposerID < other.ComposerID
}
