package domain

import "time"

type MutationKind string

const MutationLike MutationKind = "like"

type PendingMutation struct {
	ID              string
	ItemID          ItemID
	Kind            MutationKind
	PreviousValue   Item
	OptimisticValue Item
	StartedAt       time.Time
}

// ToggleLike returns the optimistic value of a like toggle.
func ToggleLike(item Item) Item {
	next := item.Clone()
	next.Liked = !item.Liked
	if next.Liked {
		next.LikeCount = item.LikeCount + 1
	} else {
		next.LikeCount = item.LikeCount - 1
	}
	if next.LikeCount < 0 {
		next.LikeCount = 0
	}
	next.Reconciliation = ReconcilePending
	return next
}

// ConfirmLike settles a toggle against the server-reported like state. The
// count is derived from the pre-mutation value so a server answer that differs
// from the optimistic guess never double counts.
func ConfirmLike(previous Item, liked bool) Item {
	confirmed := previous.Clone()
	confirmed.Liked = liked
	switch {
	case liked && !previous.Liked:
		confirmed.LikeCount = previous.LikeCount + 1
	case !liked && previous.Liked:
		confirmed.LikeCount = previous.LikeCount - 1
	}
	if confirmed.LikeCount < 0 {
		confirmed.LikeCount = 0
	}
	confirmed.Reconciliation = ReconcileConfirmed
	return confirmed
}
