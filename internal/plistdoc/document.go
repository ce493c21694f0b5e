package plistdoc

import (
	"errors"
	"strconv"

	"howett.net/plist"
)

// ErrEmptyBody is an exported constant or variable used by the authentication engine.
var ErrEmptyBody = errors.New("empty plist body")

// Document is a parsed property-list dictionary.
type Document map[string]interface{}

// Parse describes the parse operation and its observable behavior.
//
// Parse may return an error when input validation, dependency calls, or security checks fail.
// Parse does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Parse(body []byte) (Document, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	var doc Document
	if _, err := plist.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Has describes the has operation and its observable behavior.
//
// Has may return an error when input validation, dependency calls, or security checks fail.
// Has does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Str describes the str operation and its observable behavior.
//
// Str may return an error when input validation, dependency calls, or security checks fail.
// Str does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Document) Str(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Dict describes the dict operation and its observable behavior.
//
// Dict may return an error when input validation, dependency calls, or security checks fail.
// Dict does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Document) Dict(key string) Document {
	switch v := d[key].(type) {
	case Document:
		return v
	case map[string]interface{}:
		return Document(v)
	default:
		return nil
	}
}

// Int64 describes the int64 operation and its observable behavior.
//
// Int64 may return an error when input validation, dependency calls, or security checks fail.
// Int64 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Document) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
