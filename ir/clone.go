package ir

// Clone deep-copies the document. The optimizer rebuilds its output through
// this so the optimized tree shares no references with its input.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.AvailableLanguages = append([]Language(nil), d.AvailableLanguages...)
	out.Labels = cloneLabelGroups(d.Labels)
	out.InitActions = cloneActions(d.InitActions)
	out.Actions = cloneActions(d.Actions)
	out.EventActions = cloneEventActions(d.EventActions)
	out.Timelines = cloneTimelines(d.Timelines)
	if d.Metadata != nil {
		m := *d.Metadata
		out.Metadata = &m
	}
	return &out
}

func cloneLabelGroups(groups []LabelGroup) []LabelGroup {
	if groups == nil {
		return nil
	}
	out := make([]LabelGroup, len(groups))
	for i, g := range groups {
		g.Translations = append([]LabelTranslation(nil), g.Translations...)
		out[i] = g
	}
	return out
}

func cloneActions(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	out := make([]Action, len(actions))
	for i, a := range actions {
		a.StartOperations = cloneOperations(a.StartOperations)
		a.EndOperations = cloneOperations(a.EndOperations)
		out[i] = a
	}
	return out
}

func cloneEventActions(actions []EventAction) []EventAction {
	if actions == nil {
		return nil
	}
	out := make([]EventAction, len(actions))
	for i, a := range actions {
		a.StartOperations = cloneOperations(a.StartOperations)
		out[i] = a
	}
	return out
}

func cloneTimelines(timelines []Timeline) []Timeline {
	if timelines == nil {
		return nil
	}
	out := make([]Timeline, len(timelines))
	for i, tl := range timelines {
		actions := make([]TimelineAction, len(tl.Actions))
		for j, ta := range tl.Actions {
			ta.StartOperations = cloneOperations(ta.StartOperations)
			ta.EndOperations = cloneOperations(ta.EndOperations)
			actions[j] = ta
		}
		tl.Actions = actions
		out[i] = tl
	}
	return out
}

func cloneOperations(ops []Operation) []Operation {
	if ops == nil {
		return nil
	}
	out := make([]Operation, len(ops))
	for i, op := range ops {
		op.Data = op.Data.Clone()
		out[i] = op
	}
	return out
}
