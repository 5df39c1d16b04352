// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VoteValues is the configured set of storable vote values and their labels.
type VoteValues map[int]string

// DefaultVoteValues mirrors the usual scheduling poll choices.
var DefaultVoteValues = VoteValues{
	1: "×",
	2: "△",
	3: "○",
}

// Valid reports whether v can be stored as a vote.
func (vv VoteValues) Valid(v int) bool {
	if v == NoVote {
		return false
	}
	_, ok := vv[v]
	return ok
}

// Label returns the configured label for v, or its decimal form.
func (vv VoteValues) Label(v int) string {
	if text, ok := vv[v]; ok {
		return text
	}
	return strconv.Itoa(v)
}

// Value builds the value object sent to clients.
func (vv VoteValues) Value(v int) VoteValue {
	return VoteValue{Value: v, Text: vv.Label(v)}
}

// Sorted returns the configured values in descending order, the way the
// voting form lists them.
func (vv VoteValues) Sorted() []int {
	values := make([]int, 0, len(vv))
	for v := range vv {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}

// ParseVoteValues parses "1=No,2=Maybe,3=Yes".
func ParseVoteValues(s string) (VoteValues, error) {
	vv := VoteValues{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		num, label, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("vote value %q: expected <number>=<label>", pair)
		}
		v, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return nil, fmt.Errorf("vote value %q: %w", pair, err)
		}
		if v == NoVote {
			return nil, fmt.Errorf("vote value %d is reserved for \"not voted\"", NoVote)
		}
		vv[v] = strings.TrimSpace(label)
	}
	if len(vv) == 0 {
		return nil, fmt.Errorf("no vote values configured")
	}
	return vv, nil
}

// DestroyFlag is the "_destroy" marker of an item directive. It accepts a
// scalar or a list and is set when any element is truthy.
type DestroyFlag bool

func (f *DestroyFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = false
		for _, raw := range list {
			var elem DestroyFlag
			if err := elem.UnmarshalJSON(raw); err != nil {
				return err
			}
			if elem {
				*f = true
			}
		}
		return nil
	}

	var scalar interface{}
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	switch v := scalar.(type) {
	case nil:
		*f = false
	case bool:
		*f = DestroyFlag(v)
	case float64:
		*f = v != 0
	case string:
		*f = DestroyFlag(Truthy(v))
	default:
		return fmt.Errorf("invalid _destroy value %s", data)
	}
	return nil
}

// UnmarshalXML reads <_destroy> character data. Repeated elements are
// combined the same way as a list.
func (f *DestroyFlag) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	if Truthy(s) {
		*f = true
	}
	return nil
}

// ParseDestroyFlag reads a "_destroy" form field, which may repeat.
func ParseDestroyFlag(values []string) DestroyFlag {
	for _, v := range values {
		if Truthy(v) {
			return true
		}
	}
	return false
}

// Truthy reports whether a form or JSON string means "true".
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "on":
		return true
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return n != 0
	}
	return false
}

// VoteInput is one submitted vote value. Clients send numbers or numeric
// strings; anything else leaves Valid unset and the entry is ignored.
type VoteInput struct {
	Value int
	Valid bool
}

// NewVoteInput is a valid VoteInput holding v
func NewVoteInput(v int) VoteInput {
	return VoteInput{Value: v, Valid: true}
}

func (v VoteInput) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(v.Value)), nil
}

func (v *VoteInput) UnmarshalJSON(data []byte) error {
	var scalar interface{}
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	*v = VoteInput{}
	switch s := scalar.(type) {
	case float64:
		if s == float64(int(s)) {
			*v = NewVoteInput(int(s))
		}
	case string:
		return v.UnmarshalText([]byte(s))
	}
	return nil
}

func (v *VoteInput) UnmarshalText(text []byte) error {
	*v = VoteInput{}
	if n, err := strconv.Atoi(strings.TrimSpace(string(text))); err == nil {
		*v = NewVoteInput(n)
	}
	return nil
}
