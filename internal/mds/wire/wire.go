// Package wire implements the text framing of the market-data stack: the
// BLOCK/VALUE delimited envelope and the recursive "N-VkS" nested list key
// grammar used inside a frame body.
package wire

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// BlockDelimiter separates fields (and the header block from the body) in a frame.
	BlockDelimiter = '\x01'
	// ValueDelimiter separates a field's key from its value, and the header's positional values.
	ValueDelimiter = '\x02'
)

var (
	blockDelimiterStr = string(rune(BlockDelimiter))
	valueDelimiterStr = string(rune(ValueDelimiter))
)

// Tree is the parsed, still-untyped representation of a frame body: each
// entry is keyed by its positional field order, holding either a raw string
// value or a list of nested Trees (for "N-VkS"-style repeated groups).
type Tree map[int]any

// Frame is a fully split but not yet decoded market-data message: the
// positional header values and the field tree of the body.
type Frame struct {
	Headers []string
	Body    Tree
}

// ParseFrame splits a raw text frame into its header values and body tree.
func ParseFrame(raw string) (Frame, error) {
	head, body, found := strings.Cut(raw, blockDelimiterStr)
	if !found {
		return Frame{}, fmt.Errorf("wire: frame missing block delimiter")
	}
	headers := strings.Split(head, valueDelimiterStr)
	tree := make(Tree)
	for _, field := range strings.Split(body, blockDelimiterStr) {
		if field == "" {
			break
		}
		k, v, ok := strings.Cut(field, valueDelimiterStr)
		if !ok {
			return Frame{}, fmt.Errorf("wire: malformed field %q", field)
		}
		if err := parseField(tree, k, v); err != nil {
			return Frame{}, err
		}
	}
	return Frame{Headers: headers, Body: tree}, nil
}

// parseField recursively decomposes a "N", "N-VkS" or deeper nested key
// into the Tree it belongs in, inserting list items in encounter order.
// List indices on the wire are 1-based; Tree list slices are 0-based.
func parseField(data Tree, key, value string) error {
	if !strings.Contains(key, "-") {
		order, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("wire: invalid field key %q: %w", key, err)
		}
		data[order] = value
		return nil
	}

	listIdx := strings.IndexByte(key, 'V')
	if listIdx < 0 {
		return fmt.Errorf("wire: invalid nested field key %q", key)
	}
	outerKey, rest := key[:listIdx], key[listIdx+1:]
	subIndexStr, subKey, ok := strings.Cut(rest, "-")
	if !ok {
		return fmt.Errorf("wire: invalid nested field key %q", key)
	}
	outerOrder, err := strconv.Atoi(outerKey)
	if err != nil {
		return fmt.Errorf("wire: invalid outer key %q: %w", outerKey, err)
	}
	subIndex, err := strconv.Atoi(subIndexStr)
	if err != nil {
		return fmt.Errorf("wire: invalid list index %q: %w", subIndexStr, err)
	}

	existing, _ := data[outerOrder].([]Tree)
	if len(existing) < subIndex {
		existing = append(existing, make(Tree))
		data[outerOrder] = existing
	}
	sub := existing[subIndex-1]
	if err := parseField(sub, subKey, value); err != nil {
		return err
	}
	return nil
}

// EncodeCommand assembles the wire text for an outbound command: a
// VALUE_DELIMITER-joined identifier header followed by BLOCK_DELIMITER
// terminated "<order>VALUE<value>" body fields, in field order.
func EncodeCommand(identifier int, fields []EncodedField) string {
	var b strings.Builder
	b.WriteRune(ValueDelimiter)
	b.WriteString(strconv.Itoa(identifier))
	b.WriteRune(BlockDelimiter)
	for _, f := range fields {
		b.WriteString(strconv.Itoa(f.Order))
		b.WriteRune(ValueDelimiter)
		b.WriteString(f.Value)
		b.WriteRune(BlockDelimiter)
	}
	return b.String()
}

// EncodedField is a single already-stringified body field ready to be
// joined into a command frame.
type EncodedField struct {
	Order int
	Value string
}
