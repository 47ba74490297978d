package progress

// Cursor tracks which part of a multi-part lesson is on screen. It knows
// nothing about completion.
type Cursor struct {
	lessonID string
	index    int
}

// Sync points the cursor at lessonID, resetting to the first part when the
// lesson changes. Re-syncing the same lesson keeps the position.
func (c *Cursor) Sync(lessonID string) {
	if c.lessonID == lessonID {
		return
	}
	c.lessonID = lessonID
	c.index = 0
}

// LessonID returns the lesson the cursor belongs to.
func (c *Cursor) LessonID() string { return c.lessonID }

// Index returns the current part index.
func (c *Cursor) Index() int { return c.index }

// Advance moves to the next of totalParts parts. When already on the last
// part it stays put and reports pastEnd, the signal to complete the lesson
// and move on.
func (c *Cursor) Advance(totalParts int) (index int, pastEnd bool) {
	if c.index+1 >= totalParts {
		return c.index, true
	}
	c.index++
	return c.index, false
}

// Back moves to the previous part, stopping at the first.
func (c *Cursor) Back() int {
	if c.index > 0 {
		c.index--
	}
	return c.index
}
