// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package store

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/campusunite/engine/internal/models"
)

// topOrganizerLimit bounds the organizer breakdown in the overview.
const topOrganizerLimit = 10

// Overview computes the admin analytics aggregates in a single read
// snapshot. The external reporting layer owns all formatting.
func (s *BadgerStore) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	overview := &models.AnalyticsOverview{
		EventsByStatus: map[models.Status]int{
			models.StatusPending:  0,
			models.StatusApproved: 0,
			models.StatusDenied:   0,
		},
	}
	categories := map[string]*models.CategoryStat{}
	organizers := map[string]*models.OrganizerStat{}

	err := s.db.View(func(txn *badger.Txn) error {
		if err := scanEvents(txn, func(event *models.Event) error {
			overview.TotalEvents++
			overview.EventsByStatus[event.Status]++
			overview.TotalRSVPs += event.RSVPCount

			cat, ok := categories[event.Category]
			if !ok {
				cat = &models.CategoryStat{Category: event.Category}
				categories[event.Category] = cat
			}
			cat.EventCount++
			cat.TotalRSVPs += event.RSVPCount

			org, ok := organizers[event.OrganizerID]
			if !ok {
				org = &models.OrganizerStat{OrganizerID: event.OrganizerID}
				organizers[event.OrganizerID] = org
			}
			org.EventCount++
			org.TotalRSVPs += event.RSVPCount
			return nil
		}); err != nil {
			return err
		}

		count, err := countPrefix(txn, []byte(bookmarkKeyPrefix))
		if err != nil {
			return err
		}
		overview.TotalBookmarks = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	overview.Categories = sortedCategoryStats(categories)
	overview.TopOrganizers = sortedOrganizerStats(organizers)
	return overview, nil
}

// countPrefix counts keys under a prefix without fetching values.
func countPrefix(txn *badger.Txn, prefix []byte) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Rewind(); it.Valid(); it.Next() {
		count++
	}
	return count, nil
}

func sortedCategoryStats(byName map[string]*models.CategoryStat) []models.CategoryStat {
	out := make([]models.CategoryStat, 0, len(byName))
	for _, stat := range byName {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventCount != out[j].EventCount {
			return out[i].EventCount > out[j].EventCount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func sortedOrganizerStats(byID map[string]*models.OrganizerStat) []models.OrganizerStat {
	out := make([]models.OrganizerStat, 0, len(byID))
	for _, stat := range byID {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRSVPs != out[j].TotalRSVPs {
			return out[i].TotalRSVPs > out[j].TotalRSVPs
		}
		return out[i].OrganizerID < out[j].OrganizerID
	})
	if len(out) > topOrganizerLimit {
		out = out[:topOrganizerLimit]
	}
	return out
}

// DailyRSVPs sums the rsvp counts of events created on each day since the
// given time, returning one entry per day in ascending date order. Days
// without events are included with zero so the series is continuous.
func (s *BadgerStore) DailyRSVPs(ctx context.Context, since time.Time) ([]models.DailyRSVPStat, error) {
	since = since.UTC().Truncate(24 * time.Hour)
	byDay := map[string]int{}

	err := s.db.View(func(txn *badger.Txn) error {
		return scanEvents(txn, func(event *models.Event) error {
			if event.CreatedAt.Before(since) {
				return nil
			}
			day := event.CreatedAt.UTC().Format("2006-01-02")
			byDay[day] += event.RSVPCount
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	var stats []models.DailyRSVPStat
	for day := since; !day.After(s.now()); day = day.Add(24 * time.Hour) {
		key := day.Format("2006-01-02")
		stats = append(stats, models.DailyRSVPStat{Date: key, RSVPs: byDay[key]})
	}
	return stats, nil
}

// UserEvents returns the events a user organizes, attends, and has
// bookmarked, each list in start-time order.
func (s *BadgerStore) UserEvents(ctx context.Context, userID string) (*models.UserEvents, error) {
	out := &models.UserEvents{
		Organizing: []models.Event{},
		Attending:  []models.Event{},
		Bookmarked: []models.Event{},
	}

	err := s.db.View(func(txn *badger.Txn) error {
		bookmarked := map[string]struct{}{}
		prefix := userBookmarkPrefix(userID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			bookmarked[key[len(prefix):]] = struct{}{}
		}
		it.Close()

		return scanEvents(txn, func(event *models.Event) error {
			if event.OrganizerID == userID {
				out.Organizing = append(out.Organizing, *event)
			}
			if event.HasAttendee(userID) {
				out.Attending = append(out.Attending, *event)
			}
			if _, ok := bookmarked[event.ID]; ok {
				out.Bookmarked = append(out.Bookmarked, *event)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortEvents(out.Organizing)
	sortEvents(out.Attending)
	sortEvents(out.Bookmarked)
	return out, nil
}
