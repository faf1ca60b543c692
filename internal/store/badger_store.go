// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/metrics"
	"github.com/campusunite/engine/internal/models"
	"github.com/campusunite/engine/internal/validation"
)

// txnRetries bounds conflict retries per operation. Preconditions are
// re-evaluated on every attempt, so a retry can only settle on a correct
// outcome for the new state.
const txnRetries = 3

// Options configures the Badger-backed store.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory runs without disk persistence. Used by tests.
	InMemory bool
}

// BadgerStore implements EventStore over an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
	now    func() time.Time
}

var _ EventStore = (*BadgerStore)(nil)

// Open opens (or creates) the store at the configured location.
func Open(opts Options) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}

	return &BadgerStore{
		db:     db,
		logger: logging.With().Str("component", "store").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// SetClock overrides the store's clock. Tests only.
func (s *BadgerStore) SetClock(now func() time.Time) {
	s.now = now
}

// RunValueLogGC triggers one value-log garbage collection cycle.
// Returns badger.ErrNoRewrite when there was nothing to reclaim.
func (s *BadgerStore) RunValueLogGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// update runs fn in a read-write transaction with bounded conflict retries.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if attempt+1 >= txnRetries {
			metrics.StoreConflicts.Inc()
			return faults.ErrConflict
		}
		metrics.StoreTxnRetries.Inc()
	}
}

// getEvent reads and decodes one event inside txn.
func getEvent(txn *badger.Txn, eventID string) (*models.Event, error) {
	item, err := txn.Get(eventKey(eventID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, faults.NotFound("event", eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("get event %q: %w", eventID, err)
	}

	var event models.Event
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &event)
	}); err != nil {
		return nil, fmt.Errorf("decode event %q: %w", eventID, err)
	}
	return &event, nil
}

// putEvent encodes and writes one event inside txn.
func putEvent(txn *badger.Txn, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %q: %w", event.ID, err)
	}
	if err := txn.Set(eventKey(event.ID), data); err != nil {
		return fmt.Errorf("set event %q: %w", event.ID, err)
	}
	return nil
}

// Create validates the draft, assigns an id, and stores the event in status
// pending. Every violated field is reported, not just the first.
func (s *BadgerStore) Create(ctx context.Context, draft *models.EventDraft, organizer *models.UserProfile) (*models.Event, error) {
	if organizer == nil {
		return nil, faults.Forbidden("missing caller profile")
	}
	if organizer.Role != models.RoleOrganizer && organizer.Role != models.RoleAdmin {
		return nil, faults.Forbidden("creating events requires the organizer or admin role")
	}

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := s.now()
	event := &models.Event{
		ID:          uuid.New().String(),
		OrganizerID: organizer.ID,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Tags:        models.NormalizeTags(draft.Tags),
		Mode:        draft.Mode,
		Location:    draft.Location,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		Capacity:    draft.Capacity,
		Status:      models.StatusPending,
		Attendees:   []string{},
		RSVPCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if event.Mode == "" {
		event.Mode = models.ModeOnline
	}

	err := s.update(ctx, func(txn *badger.Txn) error {
		return putEvent(txn, event)
	})
	if err != nil {
		return nil, err
	}

	metrics.EventsCreated.Inc()
	s.logger.Info().
		Str("event_id", event.ID).
		Str("organizer_id", organizer.ID).
		Str("category", event.Category).
		Msg("event created")
	return event, nil
}

// validateDraft merges struct-tag validation with the cross-field schedule
// check so a single ValidationError reports everything at once.
func validateDraft(draft *models.EventDraft) error {
	violations := map[string]string{}

	if err := validation.ValidateStruct(draft); err != nil {
		var ve *faults.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for field, msg := range ve.Violations {
			violations[field] = msg
		}
	}

	if !draft.StartTime.IsZero() && !draft.EndTime.IsZero() && draft.EndTime.Before(draft.StartTime) {
		violations["end_time"] = "end_time must not be before start_time"
	}

	if len(violations) > 0 {
		return faults.NewValidationError(violations)
	}
	return nil
}

// Get returns the event or a NotFound fault.
func (s *BadgerStore) Get(ctx context.Context, eventID string) (*models.Event, error) {
	if eventID == "" {
		return nil, faults.NotFound("event", eventID)
	}

	var event *models.Event
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		event, err = getEvent(txn, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// List returns events matching the filter, ordered by start time ascending
// then id. The status gate is enforced here, server-side: callers without
// the reviewer or admin role can request approved events only.
func (s *BadgerStore) List(ctx context.Context, filter models.ListFilter, caller *models.UserProfile) ([]models.Event, error) {
	if caller != nil && !caller.CanSeeAllStatuses() {
		switch filter.Status {
		case "", models.StatusApproved:
			filter.Status = models.StatusApproved
		default:
			return nil, faults.Forbidden("listing non-approved events requires the reviewer or admin role")
		}
	}
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return nil, faults.NewValidationError(map[string]string{
			"status": "status must be one of pending, approved, denied",
		})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var events []models.Event
	err := s.db.View(func(txn *badger.Txn) error {
		return scanEvents(txn, func(event *models.Event) error {
			if matchesFilter(event, &filter) {
				events = append(events, *event)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortEvents(events)

	if offset >= len(events) {
		return []models.Event{}, nil
	}
	events = events[offset:]
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// Snapshot collects every approved event in one View transaction. The
// ranking engine reads through here rather than paging List so a
// concurrent moderation decision can never split across its scan.
func (s *BadgerStore) Snapshot(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.View(func(txn *badger.Txn) error {
		return scanEvents(txn, func(event *models.Event) error {
			if event.Status == models.StatusApproved {
				events = append(events, *event)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

// scanEvents iterates every stored event inside txn.
func scanEvents(txn *badger.Txn, fn func(*models.Event) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(eventKeyPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var event models.Event
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &event)
		}); err != nil {
			return fmt.Errorf("decode event %s: %w", it.Item().Key(), err)
		}
		if err := fn(&event); err != nil {
			return err
		}
	}
	return nil
}

// matchesFilter applies exact-match narrowing for every present filter key.
func matchesFilter(event *models.Event, filter *models.ListFilter) bool {
	if filter.Category != "" && event.Category != filter.Category {
		return false
	}
	if filter.Mode != "" && event.Mode != filter.Mode {
		return false
	}
	if filter.City != "" && event.Location.City != filter.City {
		return false
	}
	if filter.Status != "" && event.Status != filter.Status {
		return false
	}
	if filter.OrganizerID != "" && event.OrganizerID != filter.OrganizerID {
		return false
	}
	return true
}

// sortEvents orders by start time ascending, then id, so pagination is
// restartable and output is deterministic.
func sortEvents(events []models.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
}

// Update applies the patch on behalf of the organizer-of-record or an admin.
// Status is not patchable here; the API layer additionally rejects raw
// payloads naming it before the patch is even decoded.
func (s *BadgerStore) Update(ctx context.Context, eventID string, patch *models.EventPatch, caller *models.UserProfile) (*models.Event, error) {
	if caller == nil {
		return nil, faults.Forbidden("missing caller profile")
	}
	if err := validation.ValidateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Featured != nil && !caller.IsAdmin() {
		return nil, faults.Forbidden("only admins may change the featured flag")
	}

	var updated *models.Event
	err := s.update(ctx, func(txn *badger.Txn) error {
		event, err := getEvent(txn, eventID)
		if err != nil {
			return err
		}
		if event.OrganizerID != caller.ID && !caller.IsAdmin() {
			return faults.Forbidden("only the organizer or an admin may update this event")
		}

		applyPatch(event, patch)
		if event.EndTime.Before(event.StartTime) {
			return faults.NewValidationError(map[string]string{
				"end_time": "end_time must not be before start_time",
			})
		}
		event.UpdatedAt = s.now()

		updated = event
		return putEvent(txn, event)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyPatch copies non-nil patch fields onto the event.
func applyPatch(event *models.Event, patch *models.EventPatch) {
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Tags != nil {
		event.Tags = models.NormalizeTags(*patch.Tags)
	}
	if patch.Mode != nil {
		event.Mode = *patch.Mode
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.StartTime != nil {
		event.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		event.EndTime = *patch.EndTime
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	if patch.Featured != nil {
		event.Featured = *patch.Featured
	}
}

// Delete removes the event and every bookmark referencing it in one
// transaction. Deleting an absent id is a NotFound fault; a concurrent
// double delete settles to one success and one NotFound.
func (s *BadgerStore) Delete(ctx context.Context, eventID string, caller *models.UserProfile) error {
	if caller == nil {
		return faults.Forbidden("missing caller profile")
	}

	err := s.update(ctx, func(txn *badger.Txn) error {
		event, err := getEvent(txn, eventID)
		if err != nil {
			return err
		}
		if event.OrganizerID != caller.ID && !caller.IsAdmin() {
			return faults.Forbidden("only the organizer or an admin may delete this event")
		}

		// Cascade: collect bookmark keys first, then delete. Badger
		// iterators must not observe writes made mid-iteration.
		userIDs, err := bookmarkUserIDs(txn, eventID)
		if err != nil {
			return err
		}
		for _, userID := range userIDs {
			if err := txn.Delete(bookmarkKey(eventID, userID)); err != nil {
				return fmt.Errorf("delete bookmark: %w", err)
			}
			if err := txn.Delete(userBookmarkKey(userID, eventID)); err != nil {
				return fmt.Errorf("delete user bookmark: %w", err)
			}
		}

		return txn.Delete(eventKey(eventID))
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("event_id", eventID).
		Str("caller_id", caller.ID).
		Msg("event deleted")
	return nil
}

// bookmarkUserIDs lists the user ids bookmarking an event inside txn.
func bookmarkUserIDs(txn *badger.Txn, eventID string) ([]string, error) {
	prefix := eventBookmarkPrefix(eventID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var userIDs []string
	for it.Rewind(); it.Valid(); it.Next() {
		key := string(it.Item().Key())
		userIDs = append(userIDs, key[len(prefix):])
	}
	return userIDs, nil
}
