package transform

import (
	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/ir"
)

// lowerTimeline lowers a timeline declaration and its body. Scheduling state
// is a cursor (the previous action's end) threaded through the body fold in
// source order, reset per timeline.
func (t *Transformer) lowerTimeline(decl *ast.TimelineDecl) (ir.Timeline, error) {
	var timelineType ir.TimelineType
	switch decl.Provider {
	case ast.ProviderRAF:
		timelineType = ir.TimelineAnimation
	case ast.ProviderVideo, ast.ProviderAudio:
		timelineType = ir.TimelineMediaPlayer
	default:
		return ir.Timeline{}, cerr.Newf(cerr.ErrInvalidTimeline, "unknown timeline provider %q", decl.Provider).At(decl.Pos)
	}

	selector := decl.Selector
	if selector == "" {
		selector = t.opts.ContainerSelector
	}

	timeline := ir.Timeline{
		ID:       t.newNode(decl.Pos),
		Type:     timelineType,
		URI:      decl.Source,
		Loop:     decl.Loop,
		Selector: selector,
		Actions:  []ir.TimelineAction{},
	}

	t.env.push()
	defer t.env.pop()

	cursor := 0.0
	for _, stmt := range decl.Body {
		var err error
		switch s := stmt.(type) {
		case *ast.TimedBlock:
			cursor, err = t.lowerTimedBlock(s, cursor, &timeline)
		case *ast.SequenceBlock:
			cursor, err = t.lowerSequence(s, cursor, &timeline)
		case *ast.StaggerBlock:
			cursor, err = t.lowerStagger(s, cursor, &timeline)
		case *ast.ConstDecl:
			var op *ir.Operation
			op, err = t.lowerConst(s)
			if err == nil && op != nil {
				err = cerr.Newf(cerr.ErrUnsupportedExpression,
					"constant %q in a timeline body must be compile-time evaluable", s.Name).At(s.Pos)
			}
		default:
			err = cerr.Newf(cerr.ErrUnknownNode, "unhandled statement node %T in timeline body", stmt).At(stmt.Position())
		}
		if err != nil {
			return ir.Timeline{}, err
		}
	}
	return timeline, nil
}

// lowerTimedBlock lowers an `at <start>..<end>` block into one timeline
// action. Relative bounds resolve against the previous sibling action's end;
// for the first action in a timeline that end is zero, so a relative bound
// equals its literal value.
func (t *Transformer) lowerTimedBlock(block *ast.TimedBlock, cursor float64, timeline *ir.Timeline) (float64, error) {
	start, err := t.lowerBound(block.Start, cursor)
	if err != nil {
		return 0, err
	}
	end, err := t.lowerBound(block.End, cursor)
	if err != nil {
		return 0, err
	}

	t.env.push()
	defer t.env.pop()

	var mirror []ir.Operation
	startOps, err := t.lowerStatements(block.Body, &mirror)
	if err != nil {
		return 0, err
	}
	explicitEnd, err := t.lowerStatements(block.EndBody, nil)
	if err != nil {
		return 0, err
	}
	// Mirrored closes run before the author's explicit end operations.
	endOps := append(mirror, explicitEnd...)

	timeline.Actions = append(timeline.Actions, ir.TimelineAction{
		ID:              t.newNode(block.Pos),
		Duration:        ir.Duration{Start: start, End: end},
		StartOperations: orEmpty(startOps),
		EndOperations:   endOps,
	})
	return end, nil
}

func (t *Transformer) lowerBound(bound ast.TimeBound, cursor float64) (float64, error) {
	n, err := t.evalNumber(bound.Value, "timed block bound")
	if err != nil {
		return 0, err
	}
	if bound.Relative {
		return cursor + n, nil
	}
	return n, nil
}

// lowerSequence lowers `<call> for <duration>` entries back to back, the
// cursor advancing by each entry's duration after placing it.
func (t *Transformer) lowerSequence(block *ast.SequenceBlock, cursor float64, timeline *ir.Timeline) (float64, error) {
	for _, entry := range block.Entries {
		duration, err := t.evalNumber(entry.Duration, "sequence entry duration")
		if err != nil {
			return 0, err
		}
		lc, err := t.lowerCall(entry.Call, true)
		if err != nil {
			return 0, err
		}
		timeline.Actions = append(timeline.Actions, ir.TimelineAction{
			ID:              t.newNode(entry.Pos),
			Name:            entry.Call.Name,
			Duration:        ir.Duration{Start: cursor, End: cursor + duration},
			StartOperations: orEmpty(lc.Start),
			EndOperations:   lc.Mirror,
		})
		cursor += duration
	}
	return cursor, nil
}

// lowerStagger lowers one timeline action per collection item; item i starts
// at cursor + i*delay and ends at its start + duration. The alias binds the
// concrete item for each generated action, so references to it substitute at
// compile time.
func (t *Transformer) lowerStagger(block *ast.StaggerBlock, cursor float64, timeline *ir.Timeline) (float64, error) {
	delay, err := t.evalNumber(block.Delay, "stagger delay")
	if err != nil {
		return 0, err
	}
	duration, err := t.evalNumber(block.Duration, "stagger duration")
	if err != nil {
		return 0, err
	}
	coll, err := t.evalExpr(block.Collection)
	if err != nil {
		return 0, err
	}
	if !coll.folded {
		return 0, cerr.New(cerr.ErrUnsupportedExpression, "stagger collection must be a compile-time value").At(block.Collection.Position())
	}
	items, ok := coll.lit.([]any)
	if !ok {
		return 0, cerr.Newf(cerr.ErrUnsupportedExpression, "stagger collection must be an array, got %s", litTypeName(coll.lit)).At(block.Collection.Position())
	}

	for i, item := range items {
		t.env.push()
		if block.Alias != "" {
			t.env.bind(block.Alias, item, block.Pos)
		}

		var name string
		var startOps, endOps []ir.Operation
		if block.Call != nil {
			lc, err := t.lowerCall(block.Call, true)
			if err != nil {
				t.env.pop()
				return 0, err
			}
			name = block.Call.Name
			startOps = lc.Start
			endOps = lc.Mirror
		} else {
			var mirror []ir.Operation
			startOps, err = t.lowerStatements(block.Start, &mirror)
			if err != nil {
				t.env.pop()
				return 0, err
			}
			explicitEnd, err := t.lowerStatements(block.End, nil)
			if err != nil {
				t.env.pop()
				return 0, err
			}
			endOps = append(mirror, explicitEnd...)
		}
		t.env.pop()

		start := cursor + float64(i)*delay
		timeline.Actions = append(timeline.Actions, ir.TimelineAction{
			ID:              t.newNode(block.Pos),
			Name:            name,
			Duration:        ir.Duration{Start: start, End: start + duration},
			StartOperations: orEmpty(startOps),
			EndOperations:   endOps,
		})
	}

	if n := len(items); n > 0 {
		cursor += float64(n-1)*delay + duration
	}
	return cursor, nil
}
