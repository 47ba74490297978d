package domain

// ProgressUpdate is the payload of one progress mutation. A nil PartID
// completes the whole lesson.
type ProgressUpdate struct {
	LessonID string
	PartID   *string
}

// PartIDOrEmpty returns the part id or "".
func (u ProgressUpdate) PartIDOrEmpty() string {
	if u.PartID == nil {
		return ""
	}
	return *u.PartID
}
