package ports

import "github.com/bnema/feedsync/internal/domain"

type RefreshOutcome string

const (
	RefreshOutcomeRenewed RefreshOutcome = "renewed"
	RefreshOutcomeShared  RefreshOutcome = "shared"
	RefreshOutcomeExpired RefreshOutcome = "expired"
	RefreshOutcomeFailed  RefreshOutcome = "failed"
	RefreshOutcomeSkipped RefreshOutcome = "skipped"
)

type MutationOutcome string

const (
	MutationOutcomeConfirmed  MutationOutcome = "confirmed"
	MutationOutcomeRolledBack MutationOutcome = "rolled_back"
	MutationOutcomeDiscarded  MutationOutcome = "discarded"
)

type Metrics interface {
	RefreshCompleted(outcome RefreshOutcome)
	RequestAttempt(replay bool)
	FeedPageLoaded(resource string, items int)
	MutationSettled(kind domain.MutationKind, outcome MutationOutcome)
}

type NopMetrics struct{}

func (NopMetrics) RefreshCompleted(RefreshOutcome)                      {}
func (NopMetrics) RequestAttempt(bool)                                  {}
func (NopMetrics) FeedPageLoaded(string, int)                           {}
func (NopMetrics) MutationSettled(domain.MutationKind, MutationOutcome) {}
