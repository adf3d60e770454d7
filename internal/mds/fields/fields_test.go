package fields

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/mds/wire"
)

func TestDecodeBool(t *testing.T) {
	v, err := DecodeBool("T")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = DecodeBool("F")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = DecodeBool("maybe")
	assert.Error(t, err)
}

func TestEncodeBool(t *testing.T) {
	assert.Equal(t, "T", EncodeBool(true))
	assert.Equal(t, "F", EncodeBool(false))
}

func TestDateTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 15, 9, 30, 1, 250_000_000, time.UTC)
	s := EncodeDateTime(in)
	assert.Equal(t, "2024-03-15T09:30:01.250000Z", s)

	out, err := DecodeDateTime(s)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestEncodeDateTimeSixDigitMicroseconds(t *testing.T) {
	in := time.Date(2020, 12, 31, 15, 59, 0, 0, time.UTC)
	assert.Equal(t, "2020-12-31T15:59:00.000000Z", EncodeDateTime(in))
}

type testEnum int

const (
	testEnumZero testEnum = iota
	testEnumOne
)

func TestDecodeEnum(t *testing.T) {
	v, err := DecodeEnum[testEnum]("1")
	require.NoError(t, err)
	assert.Equal(t, testEnumOne, v)

	_, err = DecodeEnum[testEnum]("not-a-number")
	assert.Error(t, err)
}

func TestStripLeadingE(t *testing.T) {
	assert.Equal(t, "12345", StripLeadingE("E_12345"))
	assert.Equal(t, "12345", StripLeadingE("12345"))
}

func TestDecodeStrJoined(t *testing.T) {
	v, err := DecodeStrJoined("1~2~3", DecodeInt)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)

	v, err = DecodeStrJoined("", DecodeInt)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = DecodeStrJoined("1~x", DecodeInt)
	assert.Error(t, err)
}

func TestEncodeStrJoined(t *testing.T) {
	got := EncodeStrJoined([]int{1, 2, 3}, func(v int) string {
		return strconv.Itoa(v)
	})
	assert.Equal(t, "1~2~3", got)
}

func TestDecodeStrJoinedNested(t *testing.T) {
	got := DecodeStrJoinedNested("a_b_c")
	assert.Equal(t, map[int]string{0: "a", 1: "b", 2: "c"}, got)
}

func TestTreeStringAndList(t *testing.T) {
	tree := wire.Tree{
		1: "hello",
		2: []wire.Tree{{1: "nested"}},
	}

	s, ok := TreeString(tree, 1)
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = TreeString(tree, 99)
	assert.False(t, ok)

	list, ok := TreeList(tree, 2)
	require.True(t, ok)
	require.Len(t, list, 1)
	s, ok = TreeString(list[0], 1)
	require.True(t, ok)
	assert.Equal(t, "nested", s)
}
