package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProgram() *Program {
	p := &Program{
		ID:      "prog",
		OwnerID: "owner",
		Modules: []Module{
			{ID: "m1", Lessons: []Lesson{
				{ID: "l1", ContentType: ContentText},
				{ID: "l2", ContentType: ContentVideo, Parts: []Part{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
			}},
			{ID: "m2", IsGated: true, Lessons: []Lesson{{ID: "l3", ContentType: ContentQuiz}}},
		},
	}
	return p.Normalize()
}

func TestProgram_Normalize(t *testing.T) {
	p := testProgram()
	assert.Equal(t, 3, p.TotalLessons)
	ids := make([]string, 0)
	for _, l := range p.Lessons() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"l1", "l2", "l3"}, ids)
}

func TestWithLessonCompleted_Idempotent(t *testing.T) {
	e := &Enrollment{ID: "e", ProgramID: "prog", Kind: KindEnrolled}
	once := e.WithLessonCompleted("l1")
	twice := once.WithLessonCompleted("l1")

	assert.Equal(t, IDSet{"l1"}, twice.CompletedLessons)
	assert.Equal(t, "l1", twice.LastViewed())
	assert.Empty(t, e.CompletedLessons, "receiver must not change")
	assert.Nil(t, e.LastViewedLesson)
}

func TestWithPartCompleted_CoverageNotSequence(t *testing.T) {
	e := &Enrollment{ID: "e", ProgramID: "prog", Kind: KindEnrolled}

	e = e.WithPartCompleted("l2", "c", 3)
	e = e.WithPartCompleted("l2", "a", 3)
	assert.False(t, e.HasCompleted("l2"))
	d, ok := e.Detail("l2")
	require.True(t, ok)
	assert.Equal(t, LessonInProgress, d.Status)

	e = e.WithPartCompleted("l2", "a", 3)
	assert.False(t, e.HasCompleted("l2"), "re-marking a part must not count twice")

	e = e.WithPartCompleted("l2", "b", 3)
	assert.True(t, e.HasCompleted("l2"))
	d, _ = e.Detail("l2")
	assert.Equal(t, LessonCompleted, d.Status)
	assert.Equal(t, IDSet{"a", "b", "c"}, d.CompletedParts)
}

func TestWithPartCompleted_ZeroTotalNeverCompletes(t *testing.T) {
	e := &Enrollment{ID: "e", ProgramID: "prog"}
	e = e.WithPartCompleted("l2", "a", 0)
	assert.False(t, e.HasCompleted("l2"))
}

func TestClone_IsDeep(t *testing.T) {
	last := "l1"
	e := &Enrollment{
		ID:               "e",
		CompletedLessons: NewIDSet("l1"),
		LessonDetails:    map[string]LessonDetail{"l2": {Status: LessonInProgress, CompletedParts: NewIDSet("a")}},
		LastViewedLesson: &last,
	}
	c := e.Clone()
	c.LessonDetails["l2"] = LessonDetail{Status: LessonCompleted}
	*c.LastViewedLesson = "l3"
	c.CompletedLessons[0] = "zz"

	assert.Equal(t, LessonInProgress, e.LessonDetails["l2"].Status)
	assert.Equal(t, "l1", e.LastViewed())
	assert.Equal(t, IDSet{"l1"}, e.CompletedLessons)
}

func TestValidate_AcceptsConsistentSnapshot(t *testing.T) {
	p := testProgram()
	e := &Enrollment{ID: "e", ProgramID: "prog", Kind: KindEnrolled}
	e = e.WithLessonCompleted("l1")
	for _, part := range []string{"a", "b", "c"} {
		e = e.WithPartCompleted("l2", part, 3)
	}
	assert.NoError(t, e.Validate(p))
}

func TestValidate_RejectsInconsistencies(t *testing.T) {
	p := testProgram()

	tests := []struct {
		name string
		e    *Enrollment
		want string
	}{
		{
			name: "unknown completed lesson",
			e:    &Enrollment{ProgramID: "prog", CompletedLessons: NewIDSet("nope")},
			want: "not in program",
		},
		{
			name: "multi-part completed without coverage",
			e:    &Enrollment{ProgramID: "prog", CompletedLessons: NewIDSet("l2")},
			want: "without full part coverage",
		},
		{
			name: "part outside lesson",
			e: &Enrollment{ProgramID: "prog", LessonDetails: map[string]LessonDetail{
				"l2": {CompletedParts: NewIDSet("zz")},
			}},
			want: "outside its parts",
		},
		{
			name: "preview with progress",
			e:    &Enrollment{ProgramID: "prog", Kind: KindPreview, CompletedLessons: NewIDSet("l1")},
			want: "preview",
		},
		{
			name: "wrong program",
			e:    &Enrollment{ProgramID: "other"},
			want: "belongs to program",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.e.Validate(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewPreviewEnrollment(t *testing.T) {
	p := testProgram()
	e := NewPreviewEnrollment(p, "owner")
	assert.True(t, e.IsPreview())
	assert.Equal(t, "prog", e.ProgramID)
	assert.NoError(t, e.Validate(p))
	assert.True(t, p.IsOwnedBy("owner"))
	assert.False(t, p.IsOwnedBy(""))
}
