package domain

import (
	"fmt"
	"strings"
)

// KeySeparator joins the two origin parts into a single store key. It is
// reserved: an origin type must never contain it, an origin id may.
const KeySeparator = "#"

// Origin identifies the resource an approval request concerns. Both fields
// are required when creating or deciding a request; either may be left empty
// when the origin is used as a list filter.
type Origin struct {
	OriginType string `json:"originType"`
	OriginID   string `json:"originId"`
}

// CombinedKey is the single-string encoding of an Origin used as the store
// sort key, e.g. "doc#42".
type CombinedKey string

// CombinedKeyOf encodes an origin into its store key. Both origin fields
// must be non-empty.
func CombinedKeyOf(origin Origin) (CombinedKey, error) {
	if origin.OriginID == "" || origin.OriginType == "" {
		return "", fmt.Errorf("%w: %+v", ErrInvalidOrigin, origin)
	}
	return CombinedKey(origin.OriginType + KeySeparator + origin.OriginID), nil
}

// SplitCombinedKey decodes a store key back into its origin. The type is the
// text before the first separator; everything after it is the id, separators
// included, so ids containing the separator round-trip unchanged.
func SplitCombinedKey(key CombinedKey) (Origin, error) {
	first, rest, found := strings.Cut(string(key), KeySeparator)
	if !found {
		return Origin{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return Origin{OriginType: first, OriginID: rest}, nil
}
