// Package session enumerates chat sessions and extracts their messages
// from the chat database (C3).
//
// Grounded on the teacher's devlog_core.go SyncSession/extractAndLinkEntities
// fetch-parse-project shape (fetch a JSON blob, parse, project one field,
// skip empty-after-trim), retargeted at the IDE's bubble-store key
// convention instead of the teacher's own markdown-index rows.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/untoldecay/commitjournal/internal/chatdb"
	"github.com/untoldecay/commitjournal/internal/chatmodel"
)

// composerIndexKey is the ItemTable row listing every composer (session)
// with its lifecycle timestamps.
const composerIndexKey = "composer.composerData"

type composerIndex struct {
	AllComposers []composerMeta `json:"allComposers"`
}

type composerMeta struct {
	ComposerID    string `json:"composerId"`
	CreatedAt     int64  `json:"createdAt"`
	LastUpdatedAt int64  `json:"lastUpdatedAt"`
	BubbleOrder   []string `json:"bubbleOrder"` // bubbleIds in native conversation order
}

type bubbleRecord struct {
	Text          string           `json:"text"`
	Thinking      *json.RawMessage `json:"thinking,omitempty"`   // internal reasoning, never surfaced
	ToolFormerData *json.RawMessage `json:"toolFormerData,omitempty"` // tool payloads, never surfaced
	Role          string           `json:"type"` // decoded as a string and normalized below; a numeric value fails to decode and the bubble is skipped
}

// Provider enumerates sessions overlapping a window and extracts their
// messages.
type Provider struct {
	reader *chatdb.Reader
}

// New wraps a chatdb.Reader.
func New(reader *chatdb.Reader) *Provider {
	return &Provider{reader: reader}
}

// SessionsOverlapping returns every session whose lifecycle overlaps
// [startMS, endMS], per chatmodel.Session.Overlaps.
func (p *Provider) SessionsOverlapping(ctx context.Context, startMS, endMS int64) ([]chatmodel.Session, error) {
	raw, err := p.reader.Get(ctx, composerIndexKey)
	if err != nil {
		return nil, fmt.Errorf("session: read composer index: %w", err)
	}

	var idx composerIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("session: parse composer index: %w", err)
	}

	var out []chatmodel.Session
	for _, meta := range idx.AllComposers {
		candidate := chatmodel.Session{
			ComposerID:    meta.ComposerID,
			CreatedAt:     meta.CreatedAt,
			LastUpdatedAt: meta.LastUpdatedAt,
		}
		if !candidate.Overlaps(startMS, endMS) {
			continue
		}
		messages, err := p.messagesFor(ctx, meta)
		if err != nil {
			return nil, err
		}
		candidate.Messages = messages
		out = append(out, candidate)
	}
	return out, nil
}

// messagesFor fetches bubbles in the order listed on the session record
// (native conversation order, not timestamp order), projecting only the
// `text` field and skipping empty-after-trim messages — the contract is
// that no empty rows reach downstream.
func (p *Provider) messagesFor(ctx context.Context, meta composerMeta) ([]chatmodel.Message, error) {
	var messages []chatmodel.Message
	for _, bubbleID := range meta.BubbleOrder {
		key := fmt.Sprintf("bubble:%s:%s", meta.ComposerID, bubbleID)
		raw, err := p.reader.Get(ctx, key)
		if err != nil {
			// A bubble listed in the index but missing from the store is
			// treated as skip-silently, consistent with the "no empty
			// rows reach downstream" contract rather than a hard failure.
			continue
		}

		var rec bubbleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}

		text := strings.TrimSpace(rec.Text)
		if text == "" {
			continue
		}

		role := normalizeRole(rec.Role)
		msg, err := chatmodel.NewMessage(bubbleID, meta.ComposerID, role, text, approximateTimestamp(meta, len(messages)))
		if err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func normalizeRole(raw string) chatmodel.Role {
	switch strings.ToLower(raw) {
	case "assistant", "ai", "2":
		return chatmodel.RoleAssistant
	default:
		return chatmodel.RoleUser
	}
}

// approximateTimestamp supplies every message's timestamp, since bubble
// records are decoded without one: messages are spread evenly between
// the session's createdAt and lastUpdatedAt in conversation order, which
// keeps the (timestamp, composerId) sort stable without inventing
// precision the store doesn't provide.
func approximateTimestamp(meta composerMeta, index int) int64 {
	if len(meta.BubbleOrder) <= 1 {
		return meta.CreatedAt
	}
	span := meta.LastUpdatedAt - meta.CreatedAt
	if span <= 0 {
		return meta.CreatedAt
	}
	step := span / int64(len(meta.BubbleOrder)-1)
	return meta.CreatedAt + step*int64(index)
}
