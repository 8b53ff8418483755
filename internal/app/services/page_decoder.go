package services

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/safatanc/gsalt-console/pkg/listctl"
)

// ErrUnrecognizedPage is returned when a list response matches none of the
// known page shapes.
var ErrUnrecognizedPage = stderrors.New("unrecognized page response")

// totalKeys are the names the admin API has used for the item count.
var totalKeys = []string{"total", "total_items", "total_count", "count"}

// DecodePage normalises a list response into a PageResult. Accepted shapes:
//
//	[...]
//	{"data": [...], "total": n}
//	{"items": [...], "total": n}
//	{"success": true, "data": {"items": [...], "total_items": n}}
//	{"data": [...], "meta": {"total": n}}  (or "pagination")
//
// A missing total falls back to the number of items and null items decode as
// an empty page.
func DecodePage[T any](body []byte) (listctl.PageResult[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return listctl.PageResult[T]{}, ErrUnrecognizedPage
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return listctl.PageResult[T]{}, fmt.Errorf("decode items: %w", err)
		}
		return listctl.PageResult[T]{Items: items, Total: len(items)}, nil
	}
	if trimmed[0] != '{' {
		return listctl.PageResult[T]{}, ErrUnrecognizedPage
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return listctl.PageResult[T]{}, fmt.Errorf("decode page: %w", err)
	}
	return decodeObject[T](fields, true)
}

func decodeObject[T any](fields map[string]json.RawMessage, allowEnvelope bool) (listctl.PageResult[T], error) {
	raw, ok := fields["items"]
	if !ok {
		raw, ok = fields["data"]
	}
	if !ok {
		return listctl.PageResult[T]{}, ErrUnrecognizedPage
	}
	if isNull(raw) {
		raw = json.RawMessage("[]")
	}

	raw = bytes.TrimSpace(raw)
	if raw[0] == '{' {
		if !allowEnvelope {
			return listctl.PageResult[T]{}, ErrUnrecognizedPage
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			return listctl.PageResult[T]{}, fmt.Errorf("decode page data: %w", err)
		}
		return decodeObject[T](inner, false)
	}
	if raw[0] != '[' {
		return listctl.PageResult[T]{}, ErrUnrecognizedPage
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return listctl.PageResult[T]{}, fmt.Errorf("decode items: %w", err)
	}

	total, found, err := totalOf(fields)
	if err != nil {
		return listctl.PageResult[T]{}, err
	}
	if !found {
		total = len(items)
	}
	return listctl.PageResult[T]{Items: items, Total: total}, nil
}

func totalOf(fields map[string]json.RawMessage) (int, bool, error) {
	if total, found, err := lookupTotal(fields); found || err != nil {
		return total, found, err
	}
	for _, key := range []string{"meta", "pagination"} {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			continue
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			return 0, false, fmt.Errorf("decode %s: %w", key, err)
		}
		if total, found, err := lookupTotal(nested); found || err != nil {
			return total, found, err
		}
	}
	return 0, false, nil
}

func lookupTotal(fields map[string]json.RawMessage) (int, bool, error) {
	for _, key := range totalKeys {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			continue
		}
		var total int
		if err := json.Unmarshal(raw, &total); err != nil {
			return 0, false, fmt.Errorf("decode %s: %w", key, err)
		}
		if total < 0 {
			return 0, false, fmt.Errorf("negative %s %d", key, total)
		}
		return total, true, nil
	}
	return 0, false, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
