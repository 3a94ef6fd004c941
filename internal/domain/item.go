package domain

import "maps"

type ItemID string

type ReconcileState string

const (
	ReconcileConfirmed  ReconcileState = "confirmed"
	ReconcilePending    ReconcileState = "pending"
	ReconcileRolledBack ReconcileState = "rolled_back"
)

// Item is a feed entry (post, request record, search hit). Fields holds the
// display attributes as returned by the server; the like fields are the
// client-visible derived state that optimistic mutations operate on.
type Item struct {
	ID             ItemID
	Fields         map[string]any
	Liked          bool
	LikeCount      int64
	Reconciliation ReconcileState
}

func (i Item) Clone() Item {
	clone := i
	if i.Fields != nil {
		clone.Fields = maps.Clone(i.Fields)
	}
	return clone
}

// MergeFrom copies server-provided fields from incoming. The like fields are
// kept when the receiver has a mutation in flight.
func (i Item) MergeFrom(incoming Item) Item {
	merged := incoming.Clone()
	if i.Reconciliation == ReconcilePending {
		merged.Liked = i.Liked
		merged.LikeCount = i.LikeCount
		merged.Reconciliation = ReconcilePending
	}
	return merged
}

func (i Item) StringField(key string) string {
	value, ok := i.Fields[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
