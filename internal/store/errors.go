package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrNotFound is returned when a remote object does not exist.
	ErrNotFound = errors.New("object does not exist")

	// ErrParse is returned by ReadJSON when the object is not valid UTF-8 JSON.
	ErrParse = errors.New("object is not valid json")
)

// Error records a failed storage operation and the object it touched.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func parseJSON(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid utf-8", ErrParse)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return v, nil
}
