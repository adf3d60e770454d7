package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadTopicLoad(t *testing.T) {
	h, err := ParseHead([]string{"MCM.1.2.3", "", "T"})
	require.NoError(t, err)
	assert.Equal(t, "MCM.1.2.3", h.TopicName)
	assert.False(t, h.HasMessageIdentifier)
	assert.Equal(t, MessageTypeTopicLoad, h.MessageType)
}

func TestParseHeadWithMessageIdentifier(t *testing.T) {
	h, err := ParseHead([]string{"", "42", "F"})
	require.NoError(t, err)
	assert.True(t, h.HasMessageIdentifier)
	assert.Equal(t, 42, h.MessageIdentifier)
	assert.Equal(t, MessageTypeDelta, h.MessageType)
}

func TestParseHeadInvalidMessageIdentifier(t *testing.T) {
	_, err := ParseHead([]string{"MCM.1", "abc", "T"})
	assert.Error(t, err)
}

func TestParseHeadTooFewValues(t *testing.T) {
	_, err := ParseHead([]string{"MCM.1", ""})
	assert.Error(t, err)
}
