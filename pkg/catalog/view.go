package catalog

import (
	"sync"
	"time"

	"assembly-directory.backend/pkg/apiclient"
)

// View holds one fetched member snapshot and the filters applied to it.
// Dropdown changes recompute at once; search text recomputes after the debounce delay.
type View struct {
	mu       sync.Mutex
	members  []apiclient.Member
	criteria Criteria
	applied  Criteria
	visible  []apiclient.Member
	onChange func([]apiclient.Member)
	debounce *Debouncer
}

func NewView(delay time.Duration) *View {
	return &View{
		visible:  []apiclient.Member{},
		debounce: NewDebouncer(delay),
	}
}

// OnChange registers fn to receive every recomputed result.
// fn is called without the view lock held, possibly from a timer goroutine.
func (v *View) OnChange(fn func([]apiclient.Member)) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// SetMembers replaces the snapshot, e.g. after a refresh
func (v *View) SetMembers(members []apiclient.Member) {
	v.mu.Lock()
	v.members = append([]apiclient.Member(nil), members...)
	v.mu.Unlock()
	v.recompute()
}

func (v *View) SetSessionName(name string) {
	v.update(func(c *Criteria) { c.SessionName = name })
}

func (v *View) SetSessionDate(day string) {
	v.update(func(c *Criteria) { c.SessionDate = day })
}

func (v *View) SetCategory(category Category) {
	v.update(func(c *Criteria) { c.Category = category })
}

// SetSearchText records text and schedules a recompute
func (v *View) SetSearchText(text string) {
	v.mu.Lock()
	v.criteria.SearchText = text
	v.mu.Unlock()
	v.debounce.Trigger(v.recompute)
}

// ClearFilters resets the dropdown filters, keeping the search text and category
func (v *View) ClearFilters() {
	v.update(func(c *Criteria) {
		c.SessionName = ""
		c.SessionDate = ""
	})
}

// Flush applies a pending search text change immediately
func (v *View) Flush() {
	v.debounce.Flush()
}

// Criteria returns the filters last applied to Visible
func (v *View) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.applied
}

// Visible returns a copy of the last computed result
func (v *View) Visible() []apiclient.Member {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]apiclient.Member{}, v.visible...)
}

// Close cancels a pending recompute
func (v *View) Close() {
	v.debounce.Stop()
}

func (v *View) update(fn func(*Criteria)) {
	v.mu.Lock()
	fn(&v.criteria)
	v.mu.Unlock()
	v.recompute()
}

func (v *View) recompute() {
	v.mu.Lock()
	criteria := v.criteria
	visible := Apply(v.members, criteria)
	v.visible = visible
	v.applied = criteria
	onChange := v.onChange
	v.mu.Unlock()

	if onChange != nil {
		onChange(append([]apiclient.Member{}, visible...))
	}
}
