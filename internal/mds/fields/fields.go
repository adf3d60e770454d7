// Package fields provides the declarative field-type codecs shared by
// market-data commands, responses and topics: each field type knows how to
// turn a wire string (or a parsed wire.Tree node) into a typed Go value and
// back, mirroring the field-class hierarchy of the original protocol
// library without resorting to reflection.
package fields

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vayesy/betdaq/internal/mds/wire"
)

// DateTimeLayout is the textual timestamp format used on the wire.
const DateTimeLayout = "2006-01-02T15:04:05.000000Z"

// Descriptor describes one positional field of a command, response or
// topic schema: its wire order, its name (for documentation/errors) and
// whether it is required (a response/topic may omit a field that is not).
type Descriptor struct {
	Order    int
	Name     string
	Required bool
}

// DecodeInt parses a positional integer field.
func DecodeInt(raw string) (int, error) {
	return strconv.Atoi(raw)
}

// DecodeFloat parses a positional float field.
func DecodeFloat(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

// DecodeBool parses the "T"/"F" boolean encoding used by the stack.
func DecodeBool(raw string) (bool, error) {
	switch raw {
	case "T":
		return true, nil
	case "F":
		return false, nil
	default:
		return false, fmt.Errorf("fields: invalid bool %q", raw)
	}
}

// EncodeBool is the inverse of DecodeBool.
func EncodeBool(v bool) string {
	if v {
		return "T"
	}
	return "F"
}

// DecodeDateTime parses a wire timestamp.
func DecodeDateTime(raw string) (time.Time, error) {
	return time.Parse(DateTimeLayout, raw)
}

// EncodeDateTime is the inverse of DecodeDateTime.
func EncodeDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// DecodeEnum parses an integer-backed enum field and converts it to the
// enum type T, matching the original's parse_func=int indirection.
func DecodeEnum[T ~int](raw string) (T, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return T(n), nil
}

// StripLeadingE removes a leading "E_" marker present on some topic title
// segments (event/market ids are transmitted as "E_<id>").
func StripLeadingE(s string) string {
	return strings.TrimPrefix(s, "E_")
}

// DecodeStrJoined splits a '~'-joined field into its typed elements.
func DecodeStrJoined[T any](raw string, decode func(string) (T, error)) ([]T, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, "~")
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		v, err := decode(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeStrJoined is the inverse of DecodeStrJoined.
func EncodeStrJoined[T any](values []T, encode func(T) string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = encode(v)
	}
	return strings.Join(parts, "~")
}

// DecodeStrJoinedNested splits an underscore-joined value into a map from
// each sub-field's 0-based position to its raw string, for read-only
// composite topic titles like BackLayVolumeCurrencyFormat.
func DecodeStrJoinedNested(raw string) map[int]string {
	parts := strings.Split(raw, "_")
	out := make(map[int]string, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

// TreeString extracts the scalar string stored at order in a wire.Tree,
// returning ok=false if the field is absent or not a scalar.
func TreeString(t wire.Tree, order int) (string, bool) {
	v, found := t[order]
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// TreeList extracts the repeated-group list stored at order in a wire.Tree.
func TreeList(t wire.Tree, order int) ([]wire.Tree, bool) {
	v, found := t[order]
	if !found {
		return nil, false
	}
	l, ok := v.([]wire.Tree)
	return l, ok
}
