// Package wire implements the binary primitives of the order-stream
// protocol: little-endian fixed-width integers, the two distinct
// 7-bit variable-length integer groupings the protocol uses (one for
// frame length prefixes, one for string length prefixes), 128-bit
// .NET-style decimals carried as decimal strings, tick-based
// timestamps, and the length-prefixed framing every header and
// message body is wrapped in.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// ErrShortBuffer is returned when a Reader runs out of bytes mid-field.
var ErrShortBuffer = errors.New("lwps/wire: buffer too short")

// sevenBitGroupLimit bounds the number of 7-bit groups read for any
// variable-length integer, guarding against a corrupt stream that never
// clears its continuation bit.
const sevenBitGroupLimit = 10

// Reader decodes primitives from a byte slice, advancing its own
// position; it never copies the backing array.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Pos reports how many bytes have been consumed so far.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the unconsumed tail of the buffer.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Byte reads a single signed byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int32 reads a little-endian 32-bit signed integer.
func (r *Reader) Int32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReversedInt32 reads a big-endian 32-bit signed integer, used only by
// the message header's version field.
func (r *Reader) ReversedInt32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Int64 reads a little-endian 64-bit signed integer.
func (r *Reader) Int64() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// Length reads a frame-length or array-length prefix: 7-bit groups,
// most-significant group transmitted first, every group but the last
// carrying the 0x80 continuation bit.
func (r *Reader) Length() (int, error) {
	value := 0
	for i := 0; i < sevenBitGroupLimit; i++ {
		b, err := r.Byte()
		if err != nil {
			return 0, err
		}
		value = (value << 7) | int(b&0x7f)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, fmt.Errorf("lwps/wire: length prefix exceeds %d groups", sevenBitGroupLimit)
}

// StringLength reads a string's length prefix: 7-bit groups,
// least-significant group transmitted first, the standard varint
// layout. This is a distinct grouping from Length, carried over
// verbatim from the two independent encoders the protocol uses.
func (r *Reader) StringLength() (int, error) {
	value := 0
	for i := 0; i < sevenBitGroupLimit; i++ {
		b, err := r.Byte()
		if err != nil {
			return 0, err
		}
		value |= int(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, fmt.Errorf("lwps/wire: string length prefix exceeds %d groups", sevenBitGroupLimit)
}

// String reads a StringLength-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	n, err := r.StringLength()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ticksEpoch is 0001-01-01, the zero point .NET ticks are measured from.
var ticksEpoch = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

// DateTime reads a tick-count timestamp; a zero tick count means the
// field is absent and nil is returned.
func (r *Reader) DateTime() (*time.Time, error) {
	ticks, err := r.Int64()
	if err != nil {
		return nil, err
	}
	if ticks == 0 {
		return nil, nil
	}
	t := time.Unix(ticksEpoch.Unix()+ticks/10_000_000, (ticks%10_000_000)*100).UTC()
	return &t, nil
}

// decimalMantissaMask keeps only the low 63 bits of the first 64-bit
// word of a decimal's mantissa, mirroring the original encoder's mask.
const decimalMantissaMask = uint64(1)<<63 - 1

// Decimal reads a 128-bit .NET-style decimal and renders it as a plain
// decimal string (no exponent notation), matching the protocol's
// string-mode wire representation.
func (r *Reader) Decimal() (string, error) {
	lo, err := r.take(8)
	if err != nil {
		return "", err
	}
	hi, err := r.take(4)
	if err != nil {
		return "", err
	}
	if _, err := r.take(2); err != nil { // unused reserved word
		return "", err
	}
	exp, err := r.Byte()
	if err != nil {
		return "", err
	}
	sign, err := r.Byte()
	if err != nil {
		return "", err
	}

	loVal := binary.LittleEndian.Uint64(lo) & decimalMantissaMask
	hiVal := binary.LittleEndian.Uint32(hi)

	mantissa := new(big.Int).Lsh(new(big.Int).SetUint64(uint64(hiVal)), 64)
	mantissa.Or(mantissa, new(big.Int).SetUint64(loVal))

	return formatDecimal(mantissa, int(exp), sign&0x80 != 0), nil
}

func formatDecimal(mantissa *big.Int, exp int, negative bool) string {
	digits := mantissa.String()
	if exp > 0 {
		for len(digits) <= exp {
			digits = "0" + digits
		}
		intPart, fracPart := digits[:len(digits)-exp], digits[len(digits)-exp:]
		digits = intPart + "." + fracPart
	}
	if negative && mantissa.Sign() != 0 {
		digits = "-" + digits
	}
	return digits
}

// MoneyAmount reads a Decimal followed by a String currency code.
func (r *Reader) MoneyAmount() (amount, currency string, err error) {
	if amount, err = r.Decimal(); err != nil {
		return "", "", err
	}
	if currency, err = r.String(); err != nil {
		return "", "", err
	}
	return amount, currency, nil
}

// OptionalPresent reads an Optional field's one-byte presence flag.
func (r *Reader) OptionalPresent() (bool, error) {
	b, err := r.Byte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// LengthPrefixed reads a Length-prefixed sub-frame and returns a Reader
// scoped to exactly that many bytes, advancing past it in the parent.
func (r *Reader) LengthPrefixed() (*Reader, error) {
	n, err := r.Length()
	if err != nil {
		return nil, err
	}
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return NewReader(b), nil
}

// ReadArray reads a Length-prefixed sequence of items decoded by decode.
func ReadArray[T any](r *Reader, decode func(*Reader) (T, error)) ([]T, error) {
	n, err := r.Length()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		item, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Writer encodes primitives into a growing byte buffer. It carries a
// sticky error: once a field fails to encode (only Decimal can fail,
// on a malformed input string), every later call becomes a no-op so
// callers can encode a whole message and check Err() once at the end.
type Writer struct {
	buf bytes.Buffer
	err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Err returns the first encoding error encountered, if any.
func (w *Writer) Err() error { return w.err }

// Byte writes a single byte.
func (w *Writer) Byte(v byte) { w.buf.WriteByte(v) }

// Int32 writes a little-endian 32-bit signed integer.
func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// ReversedInt32 writes a big-endian 32-bit signed integer.
func (w *Writer) ReversedInt32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// Int64 writes a little-endian 64-bit signed integer.
func (w *Writer) Int64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// Length writes a frame/array length prefix in the most-significant-group-first grouping.
func (w *Writer) Length(v int) {
	groups := []byte{byte(v & 0x7f)}
	v >>= 7
	for v > 0 {
		groups = append([]byte{byte(v&0x7f) | 0x80}, groups...)
		v >>= 7
	}
	w.buf.Write(groups)
}

// StringLength writes a string length prefix in the standard,
// least-significant-group-first varint grouping.
func (w *Writer) StringLength(v int) {
	for v > 127 {
		w.buf.WriteByte(byte(v&0x7f) | 0x80)
		v >>= 7
	}
	w.buf.WriteByte(byte(v & 0x7f))
}

// String writes a StringLength-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.StringLength(len(s))
	w.buf.WriteString(s)
}

// DateTime writes a timestamp as .NET-style ticks; nil encodes as zero,
// which decodes back to an absent field.
func (w *Writer) DateTime(t *time.Time) {
	if t == nil {
		w.Int64(0)
		return
	}
	u := t.UTC()
	ticks := (u.Unix()-ticksEpoch.Unix())*10_000_000 + int64(u.Nanosecond()/100)
	w.Int64(ticks)
}

// Decimal writes a plain decimal string (optionally signed, optionally
// fractional) as a 128-bit .NET-style decimal. A malformed input sets
// the Writer's sticky error and leaves the buffer untouched.
func (w *Writer) Decimal(s string) {
	if w.err != nil {
		return
	}
	mantissa, exp, negative, err := parseDecimal(s)
	if err != nil {
		w.err = err
		return
	}
	if exp > 255 {
		w.err = fmt.Errorf("lwps/wire: decimal %q has too many fractional digits", s)
		return
	}
	lo := new(big.Int).And(mantissa, new(big.Int).SetUint64(decimalMantissaMask))
	hi := new(big.Int).Rsh(mantissa, 64)

	var loBuf [8]byte
	binary.LittleEndian.PutUint64(loBuf[:], lo.Uint64())
	var hiBuf [4]byte
	binary.LittleEndian.PutUint32(hiBuf[:], uint32(hi.Uint64()))

	w.buf.Write(loBuf[:])
	w.buf.Write(hiBuf[:])
	w.buf.Write([]byte{0, 0}) // unused reserved word
	w.buf.WriteByte(byte(exp))
	if negative {
		w.buf.WriteByte(0x80)
	} else {
		w.buf.WriteByte(0)
	}
}

func parseDecimal(s string) (mantissa *big.Int, exp int, negative bool, err error) {
	if s == "" {
		return nil, 0, false, errors.New("lwps/wire: empty decimal")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	digits := intPart
	if hasFrac {
		exp = len(fracPart)
		digits += fracPart
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	mantissa, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, 0, false, fmt.Errorf("lwps/wire: invalid decimal %q", s)
	}
	return mantissa, exp, negative, nil
}

// MoneyAmount writes a Decimal followed by a String currency code.
func (w *Writer) MoneyAmount(amount, currency string) {
	w.Decimal(amount)
	w.String(currency)
}

// OptionalPresent writes an Optional field's one-byte presence flag.
func (w *Writer) OptionalPresent(present bool) {
	if present {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}

// LengthPrefixed encodes the bytes produced by encode as a Length-prefixed
// sub-frame. Any error encode's Writer accumulates is propagated to w.
func (w *Writer) LengthPrefixed(encode func(*Writer)) {
	if w.err != nil {
		return
	}
	sub := NewWriter()
	encode(sub)
	if sub.err != nil {
		w.err = sub.err
		return
	}
	w.Length(sub.buf.Len())
	w.buf.Write(sub.Bytes())
}

// WriteArray writes items as a Length-prefixed sequence encoded by encode.
// encode reports failures through w's sticky error, so it needs no return
// value of its own even when encoding a nested struct can fail.
func WriteArray[T any](w *Writer, items []T, encode func(*Writer, T)) {
	if w.err != nil {
		return
	}
	w.Length(len(items))
	for _, item := range items {
		if w.err != nil {
			return
		}
		encode(w, item)
	}
}
