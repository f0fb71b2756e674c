package chatmodel

import "sort"

// SortMessages orders messages by their deterministic (timestamp,
// composerId) key in place and returns the same slice for chaining.
func SortMessages(messages []Message) []Message {
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].SortKey().Less(messages[j].SortKey())
	})
	return messages
}

// DedupeByBubbleID removes repeated bubbleIds, keeping the first
// occurrence, without disturbing relative order. C5 requires unique
// bubbleIds in its output (spec invariant).
func DedupeByBubbleID(messages []Message) []Message {
	seen := make(map[string]struct{}, len(messages))
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.BubbleID]; ok {
			continue
		}
		seen[m.BubbleID] = struct{}{}
		out = append(out, m)
	}
	return out
}
