package activity

import "gonum.org/v1/gonum/stat"

// agreementSpan is how many recent results must agree for the stream to
// count as consistent.
const agreementSpan = 3

// confidenceSpan bounds the confidence trend window.
const confidenceSpan = 5

// ConsistencyTracker keeps a bounded window of recent classification
// results and reports whether the activity stream has settled. The flag
// is advisory for downstream consumers; it never feeds back into
// classification.
type ConsistencyTracker struct {
	window      int
	activities  []Activity
	confidences []float64
}

// NewConsistencyTracker creates a tracker holding the last window
// results. The window is assumed validated.
func NewConsistencyTracker(window int) *ConsistencyTracker {
	return &ConsistencyTracker{window: window}
}

// Add records one classification result, evicting the oldest beyond the
// window.
func (t *ConsistencyTracker) Add(r Result) {
	t.activities = append(t.activities, r.Activity)
	if len(t.activities) > t.window {
		t.activities = t.activities[1:]
	}
	t.confidences = append(t.confidences, r.Confidence)
	if len(t.confidences) > confidenceSpan {
		t.confidences = t.confidences[1:]
	}
}

// Consistent reports whether the last three recorded activities are a
// single distinct value. With fewer than two results there is nothing
// to disagree with, so the stream counts as consistent.
func (t *ConsistencyTracker) Consistent() bool {
	if len(t.activities) < 2 {
		return true
	}
	recent := t.activities
	if len(recent) > agreementSpan {
		recent = recent[len(recent)-agreementSpan:]
	}
	for _, a := range recent[1:] {
		if a != recent[0] {
			return false
		}
	}
	return true
}

// ConfidenceTrend returns the mean confidence over the last five
// results, or 0 with no history.
func (t *ConsistencyTracker) ConfidenceTrend() float64 {
	if len(t.confidences) == 0 {
		return 0
	}
	return stat.Mean(t.confidences, nil)
}

// Reset clears the tracked history.
func (t *ConsistencyTracker) Reset() {
	t.activities = t.activities[:0]
	t.confidences = t.confidences[:0]
}
