package tracker

import (
	"testing"
	"time"

	"adaptui/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestTracker(clock *fakeClock) *Tracker {
	return New(zap.NewNop(), "e123abc", models.ModeExperimental,
		WithClock(clock.Now),
		WithDebounce(5*time.Millisecond))
}

func TestClickGate(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.Click()
	assert.Equal(t, 0, tr.Clicks())

	tr.StartClickTracking()
	tr.Click()
	tr.Click()
	assert.Equal(t, 2, tr.Clicks())

	tr.StopClickTracking()
	tr.Click()
	assert.Equal(t, 2, tr.Clicks())
}

func TestTaskWindowDurationAndClickDelta(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)
	tr.StartClickTracking()

	tr.Click()
	tr.Click()
	tr.StartTask("kanban_add")
	tr.Click()
	tr.Click()
	tr.Click()
	clock.Advance(2500 * time.Millisecond)
	tr.EndTask("kanban_add")

	rec := tr.Snapshot()
	assert.Equal(t, "2.500", rec.Extra["exp_task_kanban_add_time"])
	assert.Equal(t, "3", rec.Extra["exp_task_kanban_add_clicks"])
}

func TestEndTaskWithoutStartIsSkipped(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.EndTask("kanban_drag")

	rec := tr.Snapshot()
	assert.NotContains(t, rec.Extra, "exp_task_kanban_drag_time")
}

func TestStartTaskOverwritesPriorWindow(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.StartTask("kanban_edit")
	clock.Advance(10 * time.Second)
	tr.StartTask("kanban_edit")
	clock.Advance(time.Second)
	tr.EndTask("kanban_edit")

	rec := tr.Snapshot()
	assert.Equal(t, "1.000", rec.Extra["exp_task_kanban_edit_time"])
}

func TestRecordTaskCompletionLastWriteWins(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.RecordTaskCompletion(true)
	assert.Equal(t, 1, tr.Snapshot().TaskSuccess)

	tr.RecordTaskCompletion(false)
	assert.Equal(t, 0, tr.Snapshot().TaskSuccess)
}

func TestCompleteConditionIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.StartTask("kanban_add")
	clock.Advance(time.Second)
	tr.CompleteCondition("kanban_add")

	// Repeating the task must not re-close the window.
	tr.StartTask("kanban_add")
	clock.Advance(9 * time.Second)
	tr.CompleteCondition("kanban_add")

	rec := tr.Snapshot()
	assert.Equal(t, "1.000", rec.Extra["exp_task_kanban_add_time"])
	assert.True(t, tr.Conditions()["kanban_add"])
}

func TestCompleteConditionIgnoresUnknownKeys(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.CompleteCondition("kanban_rename")

	for _, done := range tr.Conditions() {
		assert.False(t, done)
	}
}

func TestPostSurveyTriggersAfterAllConditions(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)
	tr.StartClickTracking()

	for _, key := range models.ConditionKeys {
		assert.False(t, tr.PostSurveyDue())
		tr.StartTask(key)
		tr.CompleteCondition(key)
	}

	require.Eventually(t, tr.PostSurveyDue, time.Second, time.Millisecond)

	// Click tracking closes with the trigger.
	tr.Click()
	assert.Equal(t, 0, tr.Clicks())
}

func TestRecordSurveyAnswers(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	pre := &models.PreSurveyAnswers{
		Comparisons: map[string]models.Choice{"q1": models.ChoiceA},
		IconScore:   "4/5",
		IconAnswers: []string{"menu", "share"},
	}
	tr.RecordPreSurvey(pre)

	// Mutating the submitted structures must not reach the record.
	pre.Comparisons["q2"] = models.ChoiceB
	pre.IconAnswers[0] = "overwritten"

	rec := tr.Snapshot()
	assert.Len(t, rec.PreComparisons, 1)
	assert.Equal(t, "menu", rec.PreIconAnswers[0])
	assert.Equal(t, "4/5", rec.PreIconScore)

	tr.RecordPostSurvey(&models.PostSurveyAnswers{Ease: 2, Satisfaction: 4, Preference: 5, Comment: "ok"})
	rec = tr.Snapshot()
	assert.Equal(t, 2, rec.PostEase)
	assert.Equal(t, 4, rec.PostSatisfaction)
	assert.Equal(t, 5, rec.PostPreference)
	assert.Equal(t, "ok", rec.PostComment)
}

func TestSetUIConfigFlattensAxes(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tr := newTestTracker(clock)

	tr.SetUIConfig(&models.UIConfig{
		Layout:      models.StyleNovice,
		Text:        models.StyleExpert,
		Button:      models.StyleNovice,
		Input:       models.StyleStandard,
		Description: models.StyleExpert,
	})

	rec := tr.Snapshot()
	assert.Equal(t, models.StyleNovice, rec.UILayout)
	assert.Equal(t, models.StyleExpert, rec.UIText)
	assert.Equal(t, models.StyleNovice, rec.UIButton)
	assert.Equal(t, models.StyleNovice, rec.UIButtonSizePlus)
}

func TestRegistry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := NewRegistry()

	_, ok := r.Get("e123abc")
	assert.False(t, ok)

	tr := newTestTracker(clock)
	r.Put("e123abc", tr)
	got, ok := r.Get("e123abc")
	assert.True(t, ok)
	assert.Same(t, tr, got)
}
