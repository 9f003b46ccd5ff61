// Package chatkey encodes and decodes the string keys that identify a
// conversation scope: either a direct pair of users or a group.
package chatkey

import (
	"errors"
	"strconv"
	"strings"
)

const (
	groupPrefix = "group_"
	separator   = "_"
)

// Kind discriminates the two chat key forms.
type Kind int

const (
	KindDirect Kind = iota
	KindGroup
)

// ErrMalformed is returned when a key matches neither form.
var ErrMalformed = errors.New("malformed chat key")

// Key is a parsed chat key.
type Key struct {
	Kind    Kind
	GroupID int
	// UserA and UserB are set for direct keys, in encoded order.
	UserA int
	UserB int
}

// Group encodes a group chat key as "group_<id>".
func Group(groupID int) string {
	return groupPrefix + strconv.Itoa(groupID)
}

// Direct encodes a direct chat key from two user ids, in the order given.
//
// The order is NOT canonicalized: Direct(7, 42) and Direct(42, 7) are
// different strings for the same logical conversation. Callers that need one
// key per pair must sort the ids themselves; conversation bookkeeping does
// not rely on this key and matches the pair unordered instead.
func Direct(userA, userB int) string {
	return strconv.Itoa(userA) + separator + strconv.Itoa(userB)
}

// Parse decodes a chat key into its constituents.
func Parse(raw string) (Key, error) {
	if trimmed, ok := strings.CutPrefix(raw, groupPrefix); ok {
		groupID, err := strconv.Atoi(trimmed)
		if err != nil {
			return Key{}, ErrMalformed
		}
		return Key{Kind: KindGroup, GroupID: groupID}, nil
	}

	parts := strings.Split(raw, separator)
	if len(parts) != 2 {
		return Key{}, ErrMalformed
	}
	userA, err := strconv.Atoi(parts[0])
	if err != nil {
		return Key{}, ErrMalformed
	}
	userB, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, ErrMalformed
	}
	return Key{Kind: KindDirect, UserA: userA, UserB: userB}, nil
}
