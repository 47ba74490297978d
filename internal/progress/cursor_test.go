package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_AdvanceStopsAtLastPart(t *testing.T) {
	var c Cursor
	c.Sync("v")

	idx, pastEnd := c.Advance(3)
	assert.Equal(t, 1, idx)
	assert.False(t, pastEnd)
	idx, pastEnd = c.Advance(3)
	assert.Equal(t, 2, idx)
	assert.False(t, pastEnd)
	idx, pastEnd = c.Advance(3)
	assert.Equal(t, 2, idx)
	assert.True(t, pastEnd)
}

func TestCursor_ResetsOnlyWhenLessonChanges(t *testing.T) {
	var c Cursor
	c.Sync("a")
	c.Advance(3)

	c.Sync("a")
	assert.Equal(t, 1, c.Index(), "same lesson keeps its position")

	c.Sync("b")
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "b", c.LessonID())
}

func TestCursor_Back(t *testing.T) {
	var c Cursor
	c.Sync("a")
	assert.Equal(t, 0, c.Back())
	c.Advance(2)
	assert.Equal(t, 0, c.Back())
}

func TestCursor_NoParts(t *testing.T) {
	var c Cursor
	c.Sync("text")
	_, pastEnd := c.Advance(0)
	assert.True(t, pastEnd)
}
