package qcflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagTupleGrowWithFill(t *testing.T) {
	tup := NewDefaultFlagTuple(1)
	require.NoError(t, tup.Set(3, BadData))
	assert.Equal(t, 4, tup.Len())
	assert.Equal(t, NoQcPerformed, tup.Get(0))
	assert.Equal(t, NoQcPerformed, tup.Get(1))
	assert.Equal(t, NoQcPerformed, tup.Get(2))
	assert.Equal(t, BadData, tup.Get(3))
}

func TestFlagTupleSetRejectsInvalid(t *testing.T) {
	tup := NewDefaultFlagTuple(1)
	err := tup.Set(0, Flag('Z'))
	assert.Error(t, err)
}

func TestFlagTupleStringRoundTrip(t *testing.T) {
	tup, err := NewFlagTuple(GoodData, BadData, BelowQuantification, NoQcPerformed)
	require.NoError(t, err)
	s := tup.String()
	assert.Equal(t, "14Q0", s)

	parsed, err := ParseFlagTuple(s)
	require.NoError(t, err)
	assert.True(t, tup.Equal(parsed))
}

func TestParseFlagTupleInvalidElement(t *testing.T) {
	_, err := ParseFlagTuple("1X4")
	assert.Error(t, err)
}

func TestFieldPositionalOrder(t *testing.T) {
	assert.Equal(t, Field(0), QuantificationLimit)
	assert.Equal(t, Field(9), Dependency)
	assert.Len(t, Fields, 10)
}
