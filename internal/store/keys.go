// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package store

import "fmt"

// Key prefixes for Badger storage. Bookmarks are stored twice so both
// per-event cascade deletion and per-user listing are prefix scans.
const (
	eventKeyPrefix        = "event:"
	bookmarkKeyPrefix     = "bookmark:" // bookmark:<eventID>:<userID>
	userBookmarkKeyPrefix = "bmuser:"   // bmuser:<userID>:<eventID>
	modRecKeyPrefix       = "modrec:"   // modrec:<eventID>:<seq>
)

func eventKey(eventID string) []byte {
	return []byte(eventKeyPrefix + eventID)
}

func bookmarkKey(eventID, userID string) []byte {
	return []byte(bookmarkKeyPrefix + eventID + ":" + userID)
}

func userBookmarkKey(userID, eventID string) []byte {
	return []byte(userBookmarkKeyPrefix + userID + ":" + eventID)
}

// modRecKey zero-pads the sequence so lexicographic key order equals
// transition order.
func modRecKey(eventID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%010d", modRecKeyPrefix, eventID, seq))
}

func eventBookmarkPrefix(eventID string) []byte {
	return []byte(bookmarkKeyPrefix + eventID + ":")
}

func userBookmarkPrefix(userID string) []byte {
	return []byte(userBookmarkKeyPrefix + userID + ":")
}

func modRecPrefix(eventID string) []byte {
	return []byte(modRecKeyPrefix + eventID + ":")
}
