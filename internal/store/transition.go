// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/models"
)

// TransitionStatus performs the atomic check-and-set that backs the
// moderation workflow. The status flip and the record append happen in one
// transaction; two concurrent resolutions of the same pending event settle
// to exactly one success, the other failing with InvalidTransition after its
// conflict retry re-reads the already-resolved event.
func (s *BadgerStore) TransitionStatus(ctx context.Context, eventID string, from, to models.Status, rec *models.ModerationRecord) (*models.ModerationRecord, error) {
	var stored *models.ModerationRecord
	err := s.update(ctx, func(txn *badger.Txn) error {
		event, err := getEvent(txn, eventID)
		if err != nil {
			return err
		}
		if event.Status != from {
			return &faults.InvalidTransitionError{
				EventID: eventID,
				From:    string(event.Status),
				To:      string(to),
			}
		}

		seq, err := nextModRecSeq(txn, eventID)
		if err != nil {
			return err
		}

		record := *rec
		record.EventID = eventID
		record.PriorStatus = from
		record.NewStatus = to
		record.Seq = seq
		record.Timestamp = s.now()

		data, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("marshal moderation record: %w", err)
		}
		if err := txn.Set(modRecKey(eventID, seq), data); err != nil {
			return fmt.Errorf("set moderation record: %w", err)
		}

		event.Status = to
		event.UpdatedAt = record.Timestamp
		if err := putEvent(txn, event); err != nil {
			return err
		}

		stored = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("event_id", eventID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("reviewer_id", stored.ReviewerID).
		Msg("event status transitioned")
	return stored, nil
}

// nextModRecSeq counts existing records inside txn. The scan is tracked by
// the transaction, so a concurrent append conflicts and retries.
func nextModRecSeq(txn *badger.Txn, eventID string) (uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = modRecPrefix(eventID)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var count uint64
	for it.Rewind(); it.Valid(); it.Next() {
		count++
	}
	return count + 1, nil
}

// ModerationHistory returns the event's records ordered by sequence
// ascending. Key order is sequence order because sequences are zero-padded.
func (s *BadgerStore) ModerationHistory(ctx context.Context, eventID string) ([]models.ModerationRecord, error) {
	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}

	var records []models.ModerationRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = modRecPrefix(eventID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec models.ModerationRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode moderation record %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
