package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet_WithKeepsSortedAndUnique(t *testing.T) {
	s := NewIDSet("c", "a", "b", "a", "")
	assert.Equal(t, IDSet{"a", "b", "c"}, s)
	assert.Equal(t, 3, s.Len())
}

func TestIDSet_WithDoesNotModifyReceiver(t *testing.T) {
	s := NewIDSet("a", "c")
	grown := s.With("b")
	assert.Equal(t, IDSet{"a", "c"}, s)
	assert.Equal(t, IDSet{"a", "b", "c"}, grown)
}

func TestIDSet_WithExistingMemberIsIdempotent(t *testing.T) {
	s := NewIDSet("a")
	assert.Equal(t, s, s.With("a").With("a"))
}

func TestIDSet_SubsetOf(t *testing.T) {
	assert.True(t, NewIDSet("a").SubsetOf(NewIDSet("a", "b")))
	assert.True(t, IDSet(nil).SubsetOf(nil))
	assert.False(t, NewIDSet("a", "z").SubsetOf(NewIDSet("a", "b")))
}
