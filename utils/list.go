package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedList is returned when a JSON encoded list cannot be decoded.
var ErrMalformedList = errors.New("malformed list encoding")

// ParseStringList decodes a list field sent as text. A value starting with '['
// must be a JSON array of strings; anything else is split on commas.
// Entries are trimmed, empty entries dropped and duplicates removed keeping
// first-seen order.
func ParseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedList, err)
		}
	} else {
		items = strings.Split(raw, ",")
	}

	return UniqueStrings(items), nil
}

// UniqueStrings trims, drops empty values and de-duplicates preserving order.
func UniqueStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
