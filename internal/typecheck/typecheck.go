// Package typecheck validates document invariants the transformer's
// construction does not already guarantee structurally. Violations are
// reported with a field path into the document; the first violation aborts.
package typecheck

import (
	"fmt"
	"math"

	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/ir"
)

// Check runs the structural pass followed by the semantic validation pass.
// Range liveness (end > start) is deliberately not checked here; dropping
// dead windows is the optimizer's job.
func Check(doc *ir.Document) error {
	if err := checkStructure(doc); err != nil {
		return err
	}
	return validate(doc)
}

func checkStructure(doc *ir.Document) error {
	if doc.ID == "" {
		return emptyField("/id")
	}
	if doc.Engine.SystemName == "" {
		return emptyField("/engine/systemName")
	}
	if doc.ContainerSelector == "" {
		return emptyField("/containerSelector")
	}
	if doc.Language == "" {
		return emptyField("/language")
	}

	for i, action := range doc.InitActions {
		if err := checkAction(action, fmt.Sprintf("/initActions/%d", i)); err != nil {
			return err
		}
	}
	for i, action := range doc.Actions {
		if err := checkAction(action, fmt.Sprintf("/actions/%d", i)); err != nil {
			return err
		}
	}
	for i, action := range doc.EventActions {
		path := fmt.Sprintf("/eventActions/%d", i)
		if action.ID == "" {
			return emptyField(path + "/id")
		}
		if action.Name == "" {
			return emptyField(path + "/name")
		}
		if action.EventName == "" {
			return emptyField(path + "/eventName")
		}
		if err := checkOperations(action.StartOperations, path+"/startOperations"); err != nil {
			return err
		}
	}
	for i, timeline := range doc.Timelines {
		if err := checkTimeline(timeline, fmt.Sprintf("/timelines/%d", i)); err != nil {
			return err
		}
	}
	return nil
}

func checkAction(action ir.Action, path string) error {
	if action.ID == "" {
		return emptyField(path + "/id")
	}
	if action.Name == "" {
		return emptyField(path + "/name")
	}
	if err := checkOperations(action.StartOperations, path+"/startOperations"); err != nil {
		return err
	}
	return checkOperations(action.EndOperations, path+"/endOperations")
}

func checkTimeline(timeline ir.Timeline, path string) error {
	if timeline.ID == "" {
		return emptyField(path + "/id")
	}
	switch timeline.Type {
	case ir.TimelineAnimation, ir.TimelineMediaPlayer:
	default:
		return cerr.Newf(cerr.ErrTypeCheck, "invalid timeline type %q", timeline.Type).WithPath(path + "/type")
	}
	if timeline.Selector == "" {
		return emptyField(path + "/selector")
	}
	for i, action := range timeline.Actions {
		actionPath := fmt.Sprintf("%s/timelineActions/%d", path, i)
		if action.ID == "" {
			return emptyField(actionPath + "/id")
		}
		if err := checkOperations(action.StartOperations, actionPath+"/startOperations"); err != nil {
			return err
		}
		if err := checkOperations(action.EndOperations, actionPath+"/endOperations"); err != nil {
			return err
		}
	}
	return nil
}

func checkOperations(ops []ir.Operation, path string) error {
	for i, op := range ops {
		opPath := fmt.Sprintf("%s/%d", path, i)
		if op.ID == "" {
			return emptyField(opPath + "/id")
		}
		if op.SystemName == "" {
			return emptyField(opPath + "/systemName")
		}
	}
	return nil
}

func emptyField(path string) error {
	return cerr.New(cerr.ErrTypeCheck, "required field is empty").WithPath(path)
}

// validate performs the semantic checks: name uniqueness, media sources, and
// finite time values.
func validate(doc *ir.Document) error {
	names := make(map[string]string, len(doc.Actions))
	for i, action := range doc.Actions {
		path := fmt.Sprintf("/actions/%d/name", i)
		if prev, dup := names[action.Name]; dup {
			return cerr.Newf(cerr.ErrDuplicateName, "action %q already defined at %s", action.Name, prev).WithPath(path)
		}
		names[action.Name] = path
	}

	eventNames := make(map[string]string, len(doc.EventActions))
	for i, action := range doc.EventActions {
		path := fmt.Sprintf("/eventActions/%d/name", i)
		if prev, dup := eventNames[action.Name]; dup {
			return cerr.Newf(cerr.ErrDuplicateName, "event action %q already defined at %s", action.Name, prev).WithPath(path)
		}
		eventNames[action.Name] = path
	}

	timelineIDs := make(map[string]string, len(doc.Timelines))
	for i, timeline := range doc.Timelines {
		path := fmt.Sprintf("/timelines/%d", i)
		if prev, dup := timelineIDs[timeline.ID]; dup {
			return cerr.Newf(cerr.ErrDuplicateName, "timeline id %q already used at %s", timeline.ID, prev).WithPath(path + "/id")
		}
		timelineIDs[timeline.ID] = path

		if timeline.Type == ir.TimelineMediaPlayer && timeline.URI == "" {
			return cerr.New(cerr.ErrMissingMediaSource, "mediaplayer timeline requires a source uri").WithPath(path + "/uri")
		}
		for j, action := range timeline.Actions {
			durPath := fmt.Sprintf("%s/timelineActions/%d/duration", path, j)
			if !finite(action.Duration.Start) || !finite(action.Duration.End) {
				return cerr.New(cerr.ErrInvalidTimeRange, "duration must be finite").WithPath(durPath)
			}
		}
	}
	return nil
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
