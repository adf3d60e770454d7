package wire

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustHex decodes a space-separated hex dump, the form byte vectors are
// documented in, into raw bytes.
func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}

func TestLengthRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Length(123456)
	require.NoError(t, w.Err())
	assert.Equal(t, mustHex(t, "87 c4 40"), w.Bytes())

	r := NewReader(w.Bytes())
	got, err := r.Length()
	require.NoError(t, err)
	assert.Equal(t, 123456, got)
}

func TestDecimalRoundTrip(t *testing.T) {
	const value = "1234567890.123456789012345678"
	w := NewWriter()
	w.Decimal(value)
	require.NoError(t, w.Err())
	assert.Equal(t, mustHex(t, "4e f3 38 be 91 7a 79 6d eb 35 fd 03 00 00 12 00"), w.Bytes())

	r := NewReader(w.Bytes())
	got, err := r.Decimal()
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestDecimalNegative(t *testing.T) {
	w := NewWriter()
	w.Decimal("-42.5")
	require.NoError(t, w.Err())

	r := NewReader(w.Bytes())
	got, err := r.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "-42.5", got)
}

func TestDecimalInvalidSetsStickyError(t *testing.T) {
	w := NewWriter()
	w.Decimal("not-a-number")
	assert.Error(t, w.Err())

	// Once the sticky error is set, later calls are no-ops.
	w.Int32(7)
	assert.Empty(t, w.Bytes())
}

func TestStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.String("lightweightpriceserverexternal")
	require.NoError(t, w.Err())

	r := NewReader(w.Bytes())
	got, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "lightweightpriceserverexternal", got)
}

func TestStringEmpty(t *testing.T) {
	w := NewWriter()
	w.String("")
	r := NewReader(w.Bytes())
	got, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDateTimeZeroIsAbsent(t *testing.T) {
	w := NewWriter()
	w.DateTime(nil)
	r := NewReader(w.Bytes())
	got, err := r.DateTime()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDateTimeRoundTrip(t *testing.T) {
	in := time.Date(2020, 12, 31, 15, 59, 0, 0, time.UTC)
	w := NewWriter()
	w.DateTime(&in)
	r := NewReader(w.Bytes())
	got, err := r.DateTime()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, in.Equal(*got))
}

func TestMoneyAmountRoundTrip(t *testing.T) {
	w := NewWriter()
	w.MoneyAmount("10.50", "GBP")
	require.NoError(t, w.Err())

	r := NewReader(w.Bytes())
	amount, currency, err := r.MoneyAmount()
	require.NoError(t, err)
	assert.Equal(t, "10.50", amount)
	assert.Equal(t, "GBP", currency)
}

func TestOptionalPresentRoundTrip(t *testing.T) {
	w := NewWriter()
	w.OptionalPresent(true)
	w.OptionalPresent(false)
	r := NewReader(w.Bytes())
	present, err := r.OptionalPresent()
	require.NoError(t, err)
	assert.True(t, present)
	present, err = r.OptionalPresent()
	require.NoError(t, err)
	assert.False(t, present)
}

func TestLengthPrefixedRoundTrip(t *testing.T) {
	w := NewWriter()
	w.LengthPrefixed(func(sub *Writer) {
		sub.String("hello")
	})
	require.NoError(t, w.Err())

	r := NewReader(w.Bytes())
	sub, err := r.LengthPrefixed()
	require.NoError(t, err)
	s, err := sub.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Empty(t, sub.Remaining())
}

func TestLengthPrefixedPropagatesStickyError(t *testing.T) {
	w := NewWriter()
	w.LengthPrefixed(func(sub *Writer) {
		sub.Decimal("garbage")
	})
	assert.Error(t, w.Err())
	assert.Empty(t, w.Bytes())
}

func TestWriteArrayRoundTrip(t *testing.T) {
	w := NewWriter()
	WriteArray(w, []int32{1, 2, 3}, func(w *Writer, v int32) {
		w.Int32(v)
	})
	require.NoError(t, w.Err())

	r := NewReader(w.Bytes())
	got, err := ReadArray(r, func(r *Reader) (int32, error) {
		return r.Int32()
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, got)
}

func TestWriteArrayShortCircuitsOnError(t *testing.T) {
	w := NewWriter()
	calls := 0
	WriteArray(w, []string{"10.5", "garbage", "1.0"}, func(w *Writer, v string) {
		calls++
		w.Decimal(v)
	})
	assert.Error(t, w.Err())
	assert.Equal(t, 2, calls)
}

func TestByteShortBuffer(t *testing.T) {
	r := NewReader(nil)
	_, err := r.Byte()
	assert.ErrorIs(t, err, ErrShortBuffer)
}
