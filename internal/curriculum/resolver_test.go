package curriculum

import (
	"testing"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialLesson_EmptyProgram(t *testing.T) {
	p := testutil.NewTestProgram("Empty", testutil.WithModules(testutil.NewTestModule("m1")))
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1")

	assert.True(t, idx.Empty())
	assert.Nil(t, idx.InitialLesson(e))
}

func TestInitialLesson_FirstIncomplete(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)

	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("m1-l1"))
	require.NotNil(t, idx.InitialLesson(e))
	assert.Equal(t, "m1-l2", idx.InitialLesson(e).ID)
}

func TestInitialLesson_SkipsCompletedOutOfOrder(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)

	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("m1-l2"))
	assert.Equal(t, "m1-l1", idx.InitialLesson(e).ID)
}

func TestInitialLesson_AllCompletedLandsOnLast(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)

	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("m1-l1", "m1-l2", "m2-l1"))
	assert.Equal(t, "m2-l1", idx.InitialLesson(e).ID)
	assert.True(t, idx.ProgramCompleted(e))
}

func TestInitialLesson_PreviewStartsAtTop(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)

	e := testutil.NewTestEnrollment(p.ID, "owner", testutil.AsPreview(), testutil.WithCompleted("m1-l1"))
	assert.Equal(t, "m1-l1", idx.InitialLesson(e).ID)
}

func TestInitialLesson_Deterministic(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("m1-l1"))

	first := idx.InitialLesson(e).ID
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, idx.InitialLesson(e).ID)
	}
}

func TestModuleCompleted(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("empty"),
		testutil.NewTestModule("m1", testutil.WithLessons(testutil.NewTestLesson("a"), testutil.NewTestLesson("b"))),
	))
	idx := NewIndex(p)

	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("a"))
	assert.True(t, idx.ModuleCompleted(e, "empty"), "empty module is vacuously complete")
	assert.False(t, idx.ModuleCompleted(e, "m1"))
	assert.False(t, idx.ModuleCompleted(e, "missing"))

	e = e.WithLessonCompleted("b")
	assert.True(t, idx.ModuleCompleted(e, "m1"))
}

func TestModuleCompleted_PreviewAlwaysFalse(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "owner", testutil.AsPreview(), testutil.WithCompleted("m1-l1", "m1-l2"))

	assert.False(t, idx.ModuleCompleted(e, "m1"))
}

func TestModuleLocked_GatingFlipsOnPredecessorCompletion(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("m1-l1"))

	assert.False(t, idx.ModuleLocked(e, 0), "first module is never locked")
	assert.True(t, idx.ModuleLocked(e, 1))
	assert.True(t, idx.LessonLocked(e, "m2-l1"))

	e = e.WithLessonCompleted("m1-l2")
	assert.False(t, idx.ModuleLocked(e, 1))
	assert.False(t, idx.LessonLocked(e, "m2-l1"))
}

func TestModuleLocked_UngatedModuleIsOpen(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("m1", testutil.WithLessons(testutil.NewTestLesson("a"))),
		testutil.NewTestModule("m2", testutil.WithLessons(testutil.NewTestLesson("b"))),
	))
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1")

	assert.False(t, idx.ModuleLocked(e, 1))
}

func TestModuleLocked_GatedBehindEmptyModule(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("m1", testutil.WithLessons(testutil.NewTestLesson("a"))),
		testutil.NewTestModule("m2"),
		testutil.NewTestModule("m3", testutil.WithGated(), testutil.WithLessons(testutil.NewTestLesson("c"))),
	))
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1")

	assert.False(t, idx.ModuleLocked(e, 2), "an empty predecessor is complete")
}

func TestModuleLocked_PreviewBypassesEveryModule(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("m1", testutil.WithLessons(testutil.NewTestLesson("a"))),
		testutil.NewTestModule("m2", testutil.WithGated(), testutil.WithLessons(testutil.NewTestLesson("b"))),
		testutil.NewTestModule("m3", testutil.WithGated(), testutil.WithLessons(testutil.NewTestLesson("c"))),
	))
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "owner", testutil.AsPreview())

	for i := range p.Modules {
		assert.False(t, idx.ModuleLocked(e, i), "module %d", i)
	}
}

func TestNextLesson(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("m1", testutil.WithLessons(testutil.NewTestLesson("a"), testutil.NewTestLesson("b"))),
		testutil.NewTestModule("m2", testutil.WithLessons(testutil.NewTestLesson("c"))),
		testutil.NewTestModule("m3"),
	))
	idx := NewIndex(p)

	tests := []struct {
		current string
		want    string
	}{
		{"a", "b"},
		{"b", "c"},
		{"c", ""},
	}
	for _, tc := range tests {
		next, err := idx.NextLesson(tc.current)
		require.NoError(t, err)
		if tc.want == "" {
			assert.Nil(t, next, "after %s", tc.current)
			continue
		}
		require.NotNil(t, next, "after %s", tc.current)
		assert.Equal(t, tc.want, next.ID)
	}
	assert.True(t, idx.IsLastLesson("c"))
	assert.False(t, idx.IsLastLesson("b"))
}

func TestNextLesson_NextModuleEmpty(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("m1", testutil.WithLessons(testutil.NewTestLesson("a"))),
		testutil.NewTestModule("m2"),
		testutil.NewTestModule("m3", testutil.WithLessons(testutil.NewTestLesson("c"))),
	))
	idx := NewIndex(p)

	next, err := idx.NextLesson("a")
	require.NoError(t, err)
	assert.Nil(t, next, "only the immediately following module is considered")
	assert.True(t, idx.IsLastLesson("c"))
}

func TestNextLesson_StaleID(t *testing.T) {
	idx := NewIndex(testutil.TwoModuleProgram())

	next, err := idx.NextLesson("gone")
	assert.Nil(t, next)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestGatingScenario(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1")

	assert.Equal(t, "m1-l1", idx.InitialLesson(e).ID)
	assert.True(t, idx.ModuleLocked(e, 1))

	e = e.WithLessonCompleted("m1-l1").WithLessonCompleted("m1-l2")
	assert.True(t, idx.ModuleCompleted(e, "m1"))
	assert.False(t, idx.ModuleLocked(e, 1))
	assert.Equal(t, "m2-l1", idx.InitialLesson(e).ID)
}

func TestTotalPartsAndLookup(t *testing.T) {
	p := testutil.NewTestProgram("P", testutil.WithModules(
		testutil.NewTestModule("m1", testutil.WithLessons(
			testutil.NewTestLesson("v", testutil.WithParts("p1", "p2")),
			testutil.NewTestLesson("t"),
		)),
	))
	idx := NewIndex(p)

	assert.Equal(t, 2, idx.TotalParts("v"))
	assert.Equal(t, 0, idx.TotalParts("t"))
	assert.Equal(t, 0, idx.TotalParts("missing"))
	assert.Equal(t, domain.ContentVideo, idx.Lesson("v").ContentType)
	assert.Equal(t, "m1", idx.ModuleOf("t").ID)
	pos, ok := idx.Locate("t")
	require.True(t, ok)
	assert.Equal(t, Position{ModuleIndex: 0, LessonIndex: 1}, pos)
}

func TestStats(t *testing.T) {
	p := testutil.TwoModuleProgram()
	idx := NewIndex(p)
	e := testutil.NewTestEnrollment(p.ID, "u1", testutil.WithCompleted("m1-l1"))

	s := idx.Stats(e)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 1.0/3.0, s.Pct(), 0.0001)
	require.Len(t, s.Modules, 2)
	assert.Equal(t, 1, s.Modules[0].Completed)
	assert.True(t, s.Modules[1].Locked)

	preview := idx.Stats(testutil.NewTestEnrollment(p.ID, "owner", testutil.AsPreview(), testutil.WithCompleted("m1-l1")))
	assert.Equal(t, 0, preview.Completed)
	assert.False(t, preview.Modules[1].Locked)
}
