// Package optimize performs the one sanctioned optimization: dropping
// timeline actions whose window can never be live. The pass rebuilds the
// document; its output shares no references with its input.
package optimize

import "github.com/rolandzwaga/eligian/ir"

// Run returns a new document with dead timeline actions removed. An action
// is dead when its window is empty (end <= start) or starts before zero.
// Everything else passes through unchanged, in original order; the pass is
// a single linear scan per timeline and idempotent.
func Run(doc *ir.Document) *ir.Document {
	out := doc.Clone()
	for i := range out.Timelines {
		timeline := &out.Timelines[i]
		kept := make([]ir.TimelineAction, 0, len(timeline.Actions))
		for _, action := range timeline.Actions {
			if dead(action.Duration) {
				continue
			}
			kept = append(kept, action)
		}
		timeline.Actions = kept
	}
	return out
}

func dead(d ir.Duration) bool {
	return d.End <= d.Start || d.Start < 0
}
