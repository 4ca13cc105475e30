package shopify

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNotInteger = errors.New("not an integer")

// ParseID accepts a plain numeric id or a GraphQL gid such as
// gid://shopify/InventoryItem/123.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "gid://") {
		s = s[strings.LastIndexByte(s, '/')+1:]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotInteger
	}
	return id, nil
}

// IntFromJSON reads an integer sent either as a JSON number or a numeric
// string. present is false for an absent or null value.
func IntFromJSON(raw json.RawMessage) (n int64, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, true, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, true, errNotInteger
		}
		return n, true, nil
	}
	n, err = strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, true, errNotInteger
	}
	return n, true, nil
}

// IDFromJSON is IntFromJSON for identifiers: gids are accepted and the
// value must be positive.
func IDFromJSON(raw json.RawMessage) (id int64, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, true, err
		}
		if strings.TrimSpace(s) == "" {
			return 0, false, nil
		}
		id, err := ParseID(s)
		return id, true, err
	}
	id, err = strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, true, errNotInteger
	}
	return id, true, nil
}
