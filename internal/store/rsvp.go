// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/metrics"
	"github.com/campusunite/engine/internal/models"
)

// RSVP toggles the user's membership in the attendee set.
//
// The attendee set and the denormalized rsvp counter change in the same
// transaction. Badger's conflict detection makes two concurrent joins
// against the last free slot serialize: the retry of the loser re-reads the
// now-full event and fails with ErrCapacityExceeded. Leaves always succeed.
func (s *BadgerStore) RSVP(ctx context.Context, eventID, userID string) (bool, error) {
	var joined bool
	err := s.update(ctx, func(txn *badger.Txn) error {
		event, err := getEvent(txn, eventID)
		if err != nil {
			return err
		}

		if event.HasAttendee(userID) {
			event.RemoveAttendee(userID)
			joined = false
		} else {
			if event.AtCapacity() {
				metrics.RSVPRejections.Inc()
				return faults.ErrCapacityExceeded
			}
			event.AddAttendee(userID)
			joined = true
		}

		event.UpdatedAt = s.now()
		return putEvent(txn, event)
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug().
		Str("event_id", eventID).
		Str("user_id", userID).
		Bool("joined", joined).
		Msg("rsvp toggled")
	return joined, nil
}

// Bookmark records a (user, event) bookmark. Duplicate bookmarks are a no-op
// success so the operation is idempotent. The event must exist.
func (s *BadgerStore) Bookmark(ctx context.Context, eventID, userID string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if _, err := getEvent(txn, eventID); err != nil {
			return err
		}

		key := bookmarkKey(eventID, userID)
		_, err := txn.Get(key)
		if err == nil {
			return nil // already bookmarked
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get bookmark: %w", err)
		}

		bookmark := models.Bookmark{
			UserID:    userID,
			EventID:   eventID,
			CreatedAt: s.now(),
		}
		data, err := json.Marshal(bookmark)
		if err != nil {
			return fmt.Errorf("marshal bookmark: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set bookmark: %w", err)
		}
		// Mirror key enables per-user listing as a prefix scan.
		if err := txn.Set(userBookmarkKey(userID, eventID), []byte(eventID)); err != nil {
			return fmt.Errorf("set user bookmark: %w", err)
		}
		return nil
	})
}

// Unbookmark removes a bookmark. Removing an absent bookmark is a no-op
// success.
func (s *BadgerStore) Unbookmark(ctx context.Context, eventID, userID string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := txn.Delete(bookmarkKey(eventID, userID)); err != nil &&
			!errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete bookmark: %w", err)
		}
		if err := txn.Delete(userBookmarkKey(userID, eventID)); err != nil &&
			!errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete user bookmark: %w", err)
		}
		return nil
	})
}
