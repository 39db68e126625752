// Package tracker accumulates the experiment record for one session: click
// counts, per-task timing windows, checklist conditions and survey answers.
package tracker

import (
	"strconv"
	"sync"
	"time"

	"adaptui/internal/models"

	"go.uber.org/zap"
)

type taskWindow struct {
	start       time.Time
	startClicks int
}

// Tracker is the per-session experiment state machine. All methods are safe
// for concurrent use; gin serves each event on its own goroutine, so the
// mutex plays the role the single browser event loop played upstream.
type Tracker struct {
	log *zap.Logger

	mu          sync.Mutex
	record      *models.ExperimentRecord
	clickActive bool
	clicks      int
	tasks       map[string]taskWindow
	conditions  map[string]bool

	postSurveyTriggered bool
	postSurveyDue       bool

	debounce time.Duration
	now      func() time.Time
}

// Option tweaks tracker construction; used by tests to control time.
type Option func(*Tracker)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithDebounce sets the delay between the last condition flipping true and
// the post-survey becoming due.
func WithDebounce(d time.Duration) Option {
	return func(t *Tracker) { t.debounce = d }
}

// New initializes a tracker and its experiment record.
func New(log *zap.Logger, participantID string, mode models.Mode, opts ...Option) *Tracker {
	t := &Tracker{
		log:        log,
		tasks:      make(map[string]taskWindow),
		conditions: make(map[string]bool),
		debounce:   500 * time.Millisecond,
		now:        time.Now,
	}
	for _, key := range models.ConditionKeys {
		t.conditions[key] = false
	}
	for _, opt := range opts {
		opt(t)
	}
	t.record = models.NewExperimentRecord(participantID, mode, t.now())
	return t
}

// StartClickTracking opens the click-counting gate. Clicks before this
// point (pre-survey, loading screen) are excluded by design.
func (t *Tracker) StartClickTracking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clickActive = true
}

// StopClickTracking closes the gate.
func (t *Tracker) StopClickTracking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clickActive = false
}

// Click increments the global counter while the gate is open.
func (t *Tracker) Click() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.clickActive {
		return
	}
	t.clicks++
	t.record.TotalClicks = t.clicks
}

// Clicks returns the current global click count.
func (t *Tracker) Clicks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clicks
}

// RecordPreSurvey stores the submitted answers. The answer structures are
// owned by the tracker after submission and never mutated.
func (t *Tracker) RecordPreSurvey(answers *models.PreSurveyAnswers) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record.PreComparisons = make(map[string]models.Choice, len(answers.Comparisons))
	for id, choice := range answers.Comparisons {
		t.record.PreComparisons[id] = choice
	}
	t.record.PreIconScore = answers.IconScore
	t.record.PreIconAnswers = append([]string(nil), answers.IconAnswers...)
}

// SetUIConfig flattens the realized configuration into the record.
func (t *Tracker) SetUIConfig(cfg *models.UIConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record.UILayout = cfg.Layout
	t.record.UIText = cfg.Text
	t.record.UIButton = cfg.Button
	t.record.UIInput = cfg.Input
	t.record.UIDescription = cfg.Description
	// The plus-button size tier tracks the button axis.
	t.record.UIButtonSizePlus = cfg.Button
	t.record.Presentation = cfg.Presentation
	t.record.Reasons = cfg.Reasons
}

// StartTask opens the timing window for a task key, overwriting any prior
// window. Overwrite-not-accumulate: a second start without an intervening
// end simply restarts the measurement.
func (t *Tracker) StartTask(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks[key] = taskWindow{start: t.now(), startClicks: t.clicks}
	t.log.Debug("Experiment task started",
		zap.String("task", key),
		zap.Int("clicks", t.clicks))
}

// EndTask closes the window and stores the derived duration and click
// delta as dynamically named record fields. Ending a task that was never
// started is a warning, not an error: some tasks can legitimately complete
// without an explicit start.
func (t *Tracker) EndTask(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.endTaskLocked(key)
}

func (t *Tracker) endTaskLocked(key string) {
	w, ok := t.tasks[key]
	if !ok {
		t.log.Warn("No start data for experiment task, skipping", zap.String("task", key))
		return
	}

	duration := t.now().Sub(w.start).Seconds()
	clicks := t.clicks - w.startClicks

	t.record.Extra["exp_task_"+key+"_time"] = strconv.FormatFloat(duration, 'f', 3, 64)
	t.record.Extra["exp_task_"+key+"_clicks"] = strconv.Itoa(clicks)

	t.log.Debug("Experiment task completed",
		zap.String("task", key),
		zap.Float64("seconds", duration),
		zap.Int("clicks", clicks))
}

// RecordTaskCompletion sets the scalar success flag. Last write wins; the
// exported column reflects the most recent completion event.
func (t *Tracker) RecordTaskCompletion(success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if success {
		t.record.TaskSuccess = 1
	} else {
		t.record.TaskSuccess = 0
	}
}

// CompleteCondition marks a checklist condition satisfied. The timing
// window closes only on the first successful completion; repeating a task
// neither re-ends it nor re-triggers the post-survey. When the last
// condition flips true, click tracking stops and the post-survey becomes
// due after the debounce delay, exactly once.
func (t *Tracker) CompleteCondition(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	done, known := t.conditions[key]
	if !known {
		t.log.Warn("Unknown checklist condition", zap.String("condition", key))
		return
	}
	if done {
		return
	}

	t.endTaskLocked(key)
	t.conditions[key] = true

	for _, k := range models.ConditionKeys {
		if !t.conditions[k] {
			return
		}
	}
	if t.postSurveyTriggered {
		return
	}
	t.postSurveyTriggered = true
	t.log.Info("All checklist conditions satisfied, scheduling post-survey")
	time.AfterFunc(t.debounce, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.clickActive = false
		t.postSurveyDue = true
	})
}

// Conditions returns a copy of the checklist state.
func (t *Tracker) Conditions() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]bool, len(t.conditions))
	for k, v := range t.conditions {
		out[k] = v
	}
	return out
}

// PostSurveyDue reports whether the debounced completion trigger has fired.
func (t *Tracker) PostSurveyDue() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.postSurveyDue
}

// RecordPostSurvey stores the post-survey answers.
func (t *Tracker) RecordPostSurvey(answers *models.PostSurveyAnswers) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record.PostEase = answers.Ease
	t.record.PostSatisfaction = answers.Satisfaction
	t.record.PostPreference = answers.Preference
	t.record.PostComment = answers.Comment
}

// Snapshot returns a copy of the record safe to serialize while the
// session keeps running.
func (t *Tracker) Snapshot() *models.ExperimentRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.Clone()
}
