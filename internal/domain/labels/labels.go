// Package labels decides which province labels a map view draws.
package labels

import "github.com/okian/aureus/internal/domain/viewport"

// Label is a place name anchored at a point.
type Label struct {
	Province string          `json:"province"`
	Text     string          `json:"text"`
	Position viewport.LatLng `json:"position"`
}

// Rule gates labels on zoom. Labels show only when the zoom is strictly
// greater than Threshold.
type Rule struct {
	Threshold int
}

// Visible reports whether labels render at zoom.
func (r Rule) Visible(zoom int) bool { return zoom > r.Threshold }

// Filter returns the labels whose province is in selected, or nothing when
// zoom does not pass the rule.
func (r Rule) Filter(all []Label, selected map[string]struct{}, zoom int) []Label {
	out := []Label{}
	if !r.Visible(zoom) {
		return out
	}
	for _, l := range all {
		if _, ok := selected[l.Province]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Tracker caches the label set of one view and recomputes it whenever zoom,
// selection, source labels or the show flag change.
type Tracker struct {
	rule    Rule
	all     []Label
	show    bool
	visible []Label
}

// NewTracker returns a tracker that shows labels by default.
func NewTracker(rule Rule) *Tracker {
	return &Tracker{rule: rule, show: true, visible: []Label{}}
}

// Rule returns the zoom rule.
func (t *Tracker) Rule() Rule { return t.rule }

// SetLabels replaces the source labels.
func (t *Tracker) SetLabels(all []Label) {
	t.all = make([]Label, len(all))
	copy(t.all, all)
}

// SetShow applies the external show-labels flag.
func (t *Tracker) SetShow(show bool) { t.show = show }

// Show reports the show-labels flag.
func (t *Tracker) Show() bool { return t.show }

// Recompute derives the visible set for zoom and selected.
func (t *Tracker) Recompute(zoom int, selected map[string]struct{}) {
	if !t.show {
		t.visible = []Label{}
		return
	}
	t.visible = t.rule.Filter(t.all, selected, zoom)
}

// Visible returns the last computed label set.
func (t *Tracker) Visible() []Label {
	out := make([]Label, len(t.visible))
	copy(out, t.visible)
	return out
}
