package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
	"github.com/oklog/ulid/v2"
)

// Mutator describes one kind of optimistic mutation.
type Mutator interface {
	Kind() domain.MutationKind
	// Optimistic returns the value shown while the request is in flight.
	Optimistic(current domain.Item) domain.Item
	// Commit performs the server call and returns the settled value derived
	// from previous.
	Commit(ctx context.Context, previous domain.Item) (domain.Item, error)
	// Settle copies the fields owned by this mutation kind from settled onto
	// current, leaving the rest of current untouched.
	Settle(current, settled domain.Item) domain.Item
}

// LikeMutator toggles the like state of feed items.
type LikeMutator struct {
	Service  ports.LikeService
	Resource string
}

var _ Mutator = LikeMutator{}

func (LikeMutator) Kind() domain.MutationKind { return domain.MutationLike }

func (LikeMutator) Optimistic(current domain.Item) domain.Item {
	return domain.ToggleLike(current)
}

func (m LikeMutator) Commit(ctx context.Context, previous domain.Item) (domain.Item, error) {
	liked, err := m.Service.ToggleLike(ctx, m.Resource, previous.ID)
	if err != nil {
		return domain.Item{}, err
	}
	return domain.ConfirmLike(previous, liked), nil
}

func (LikeMutator) Settle(current, settled domain.Item) domain.Item {
	out := current.Clone()
	out.Liked = settled.Liked
	out.LikeCount = settled.LikeCount
	out.Reconciliation = settled.Reconciliation
	return out
}

// MutationEngine applies optimistic mutations to an ItemStore and reconciles
// them with the server. Mutations on the same item and kind run one at a
// time in arrival order.
type MutationEngine struct {
	items    ItemStore
	mutators map[domain.MutationKind]Mutator
	queue    *keyedQueue
	logger   *slog.Logger
	metrics  ports.Metrics
	clock    ports.Clock

	mu      sync.Mutex
	pending map[string]domain.PendingMutation
	closed  bool
}

func NewMutationEngine(items ItemStore, mutators []Mutator, opts ...Option) *MutationEngine {
	s := newSettings(opts)
	registry := make(map[domain.MutationKind]Mutator, len(mutators))
	for _, m := range mutators {
		registry[m.Kind()] = m
	}

	return &MutationEngine{
		items:    items,
		mutators: registry,
		queue:    newKeyedQueue(),
		logger:   s.logger.With("component", "mutation_engine"),
		metrics:  s.metrics,
		clock:    s.clock,
		pending:  map[string]domain.PendingMutation{},
	}
}

// Apply shows the optimistic value immediately and returns the settled value
// once the server answered. On failure the item is rolled back and the error
// is returned.
func (e *MutationEngine) Apply(ctx context.Context, id domain.ItemID, kind domain.MutationKind) (domain.Item, error) {
	mutator, ok := e.mutators[kind]
	if !ok {
		return domain.Item{}, fmt.Errorf("apply %q: %w", kind, domain.ErrUnknownMutationKind)
	}

	release, err := e.queue.acquire(ctx, string(kind)+"/"+string(id))
	if err != nil {
		return domain.Item{}, err
	}
	defer release()

	if e.isClosed() {
		return domain.Item{}, domain.ErrControllerClosed
	}

	previous, ok := e.items.Item(id)
	if !ok {
		return domain.Item{}, fmt.Errorf("apply %s to %s: %w", kind, id, domain.ErrItemNotFound)
	}

	mutation, err := e.begin(mutator, previous)
	if err != nil {
		return domain.Item{}, err
	}
	e.items.ReplaceItem(mutation.OptimisticValue)

	settled, commitErr := mutator.Commit(ctx, previous)
	if !e.finish(mutation) {
		e.metrics.MutationSettled(kind, ports.MutationOutcomeDiscarded)
		e.logger.Debug("mutation settled after close", "mutation_id", mutation.ID, "error", commitErr)
		if commitErr != nil {
			return domain.Item{}, commitErr
		}
		return settled, nil
	}

	if commitErr != nil {
		rolledBack := previous.Clone()
		rolledBack.Reconciliation = domain.ReconcileRolledBack
		restored := e.settle(mutator, id, rolledBack)
		e.metrics.MutationSettled(kind, ports.MutationOutcomeRolledBack)
		e.logger.Warn("mutation rolled back", "mutation_id", mutation.ID, "item_id", id, "kind", kind, "error", commitErr)
		return restored, fmt.Errorf("apply %s to %s: %w", kind, id, commitErr)
	}

	confirmed := e.settle(mutator, id, settled)
	e.metrics.MutationSettled(kind, ports.MutationOutcomeConfirmed)
	return confirmed, nil
}

func (e *MutationEngine) begin(mutator Mutator, previous domain.Item) (domain.PendingMutation, error) {
	now := e.clock.Now()
	mutationID, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return domain.PendingMutation{}, fmt.Errorf("generate mutation id: %w", err)
	}

	mutation := domain.PendingMutation{
		ID:              mutationID.String(),
		ItemID:          previous.ID,
		Kind:            mutator.Kind(),
		PreviousValue:   previous,
		OptimisticValue: mutator.Optimistic(previous),
		StartedAt:       now,
	}

	e.mu.Lock()
	e.pending[mutation.ID] = mutation
	e.mu.Unlock()

	return mutation, nil
}

// finish removes the mutation from the pending set and reports whether its
// result may still be written.
func (e *MutationEngine) finish(mutation domain.PendingMutation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, mutation.ID)
	return !e.closed
}

func (e *MutationEngine) settle(mutator Mutator, id domain.ItemID, settled domain.Item) domain.Item {
	current, ok := e.items.Item(id)
	if !ok {
		return settled
	}
	next := mutator.Settle(current, settled)
	e.items.ReplaceItem(next)
	return next
}

// Pending lists in-flight mutations for id, oldest first.
func (e *MutationEngine) Pending(id domain.ItemID) []domain.PendingMutation {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.PendingMutation, 0)
	for _, mutation := range e.pending {
		if mutation.ItemID == id {
			out = append(out, mutation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close makes results that arrive afterwards no-ops.
func (e *MutationEngine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

func (e *MutationEngine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// keyedQueue serializes work per key. Waiters are admitted in arrival order.
type keyedQueue struct {
	mu    sync.Mutex
	slots map[string]*queueSlot
}

type queueSlot struct {
	token chan struct{}
	refs  int
}

func newKeyedQueue() *keyedQueue {
	return &keyedQueue{slots: map[string]*queueSlot{}}
}

func (q *keyedQueue) acquire(ctx context.Context, key string) (func(), error) {
	q.mu.Lock()
	slot, ok := q.slots[key]
	if !ok {
		slot = &queueSlot{token: make(chan struct{}, 1)}
		q.slots[key] = slot
	}
	slot.refs++
	q.mu.Unlock()

	select {
	case slot.token <- struct{}{}:
		return func() {
			<-slot.token
			q.drop(key, slot)
		}, nil
	case <-ctx.Done():
		q.drop(key, slot)
		return nil, ctx.Err()
	}
}

func (q *keyedQueue) drop(key string, slot *queueSlot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(q.slots, key)
	}
}
