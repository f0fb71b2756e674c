// Package chatcollect composes the platform resolver, database reader,
// session provider, and commit time-window into one chat-collection call
// (C5): collect_chat(commit) -> [Message].
//
// Grounded on the teacher's devlog_core.go SyncSession, a straight-line
// top-to-bottom pipeline function (parse -> hash -> extract ->
// crystallize) rather than an object graph — the same shape here composes
// resolve -> discover -> open -> enumerate -> window-filter -> dedupe -> cap.
package chatcollect

import (
	"context"

	"github.com/untoldecay/commitjournal/internal/chatdb"
	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/platform"
	"github.com/untoldecay/commitjournal/internal/session"
	"github.com/untoldecay/commitjournal/internal/telemetry"
	"github.com/untoldecay/commitjournal/internal/window"
)

// DefaultSoftCap is the soft message cap before trimming (spec §6's
// chat.max_messages default).
const DefaultSoftCap = 200

// DiscoveryDepth bounds the recursive scan for state.vscdb files under
// each resolved workspace root.
const DiscoveryDepth = 6

// Collector composes C1-C4 into the chat-collection call.
type Collector struct {
	resolver    *platform.Resolver
	softCap     int
}

// New constructs a Collector with the given message soft cap (0 uses
// DefaultSoftCap).
func New(resolver *platform.Resolver, softCap int) *Collector {
	if softCap <= 0 {
		softCap = DefaultSoftCap
	}
	return &Collector{resolver: resolver, softCap: softCap}
}

// Collect returns a deterministically ordered, bubbleId-deduplicated
// message sequence bounded by w's overlap semantics, soft-capped with
// oldest-trimmed-first.
func (c *Collector) Collect(ctx context.Context, w window.TimeWindow) ([]chatmodel.Message, error) {
	var err error
	var result []chatmodel.Message
	recErr := telemetry.RecordOperation(ctx, "chatcollect", "collect_chat", func(ctx context.Context, span telemetry.Span) error {
		result, err = c.collect(ctx, w, span)
		return err
	})
	if recErr != nil {
		return nil, recErr
	}
	return result, nil
}

func (c *Collector) collect(ctx context.Context, w window.TimeWindow, span telemetry.Span) ([]chatmodel.Message, error) {
	roots := c.resolver.Resolve(ctx)

	var all []chatmodel.Message
	for _, root := range roots {
		dbPaths := chatdb.Discover(ctx, root, DiscoveryDepth)
		for _, dbPath := range dbPaths {
			reader, openErr := chatdb.OpenReadonly(ctx, dbPath)
			if openErr != nil {
				// A foreign, possibly-mid-write SQLite file failing to
				// open degrades this one candidate, not the whole
				// collection — other roots/databases still contribute.
				continue
			}
			provider := session.New(reader)
			sessions, sessErr := provider.SessionsOverlapping(ctx, w.StartMS(), w.EndMS())
			if sessErr != nil {
				continue
			}
			for _, s := range sessions {
				all = append(all, s.Messages...)
			}
		}
	}

	chatmodel.SortMessages(all)
	all = chatmodel.DedupeByBubbleID(all)

	trimmedCount := 0
	if len(all) > c.softCap {
		trimmedCount = len(all) - c.softCap
		all = all[trimmedCount:]
	}

	span.SetAttributes(
		telemetry.Attr("chat.message_count", len(all)),
		telemetry.Attr("chat.trimmed_count", trimmedCount),
		telemetry.Attr("chat.workspace_count", len(roots)),
	)
	if rm := telemetry.Metrics(); rm != nil {
		rm.RecordMessageCount(ctx, len(all))
	}

	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}
