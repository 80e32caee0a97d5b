// Package ir defines the intermediate representation the compiler produces:
// an engine-agnostic configuration document, built once by the transformer,
// replaced wholesale by the optimizer, and projected by the emitter. Nothing
// in this package mutates a document after construction.
package ir

// TimelineType identifies the runtime driving a timeline.
type TimelineType string

const (
	TimelineAnimation   TimelineType = "animation"
	TimelineMediaPlayer TimelineType = "mediaplayer"
)

// Engine references the presentation engine by its registered system name.
type Engine struct {
	SystemName string `json:"systemName"`
}

// Language pairs a locale code with its display label.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// LabelTranslation is one localized text of a label group.
type LabelTranslation struct {
	LanguageCode string `json:"languageCode"`
	Text         string `json:"label"`
}

// LabelGroup is a named set of translations.
type LabelGroup struct {
	ID           string             `json:"id"`
	Translations []LabelTranslation `json:"labels"`
}

// Duration is a [start, end) window in seconds on a timeline.
type Duration struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Operation is one atomic engine step with its named parameter payload.
type Operation struct {
	ID         string         `json:"id"`
	SystemName string         `json:"systemName"`
	Data       *OperationData `json:"operationData,omitempty"`
}

// Action is a user-defined, named, reusable operation sequence. Regular
// actions carry only a start phase; endable actions also populate the end
// phase.
type Action struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	StartOperations []Operation `json:"startOperations"`
	EndOperations   []Operation `json:"endOperations,omitempty"`
}

// EventAction is an operation sequence triggered by a named runtime event.
// Event actions are fire-and-forget: they have no end phase.
type EventAction struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	EventName       string      `json:"eventName"`
	EventTopic      string      `json:"eventTopic,omitempty"`
	StartOperations []Operation `json:"startOperations"`
}

// TimelineAction is a scheduled unit of behavior on a timeline.
type TimelineAction struct {
	ID              string      `json:"id"`
	Name            string      `json:"name,omitempty"`
	Duration        Duration    `json:"duration"`
	StartOperations []Operation `json:"startOperations"`
	EndOperations   []Operation `json:"endOperations,omitempty"`
}

// Timeline is an ordered schedule of timeline actions driven by a provider.
type Timeline struct {
	ID       string           `json:"id"`
	Type     TimelineType     `json:"type"`
	URI      string           `json:"uri,omitempty"`
	Loop     bool             `json:"loop"`
	Selector string           `json:"selector"`
	Actions  []TimelineAction `json:"timelineActions"`
}

// Metadata is compiler bookkeeping carried on the document for diagnostics
// and tooling. The emitter strips it from the published configuration.
type Metadata struct {
	Compiler   string `json:"compiler"`
	SourceName string `json:"sourceName,omitempty"`
}

// Document is the compiled configuration.
type Document struct {
	ID                 string        `json:"id"`
	Engine             Engine        `json:"engine"`
	ContainerSelector  string        `json:"containerSelector"`
	Language           string        `json:"language"`
	LayoutTemplate     string        `json:"layoutTemplate"`
	AvailableLanguages []Language    `json:"availableLanguages"`
	Labels             []LabelGroup  `json:"labels"`
	InitActions        []Action      `json:"initActions"`
	Actions            []Action      `json:"actions"`
	EventActions       []EventAction `json:"eventActions"`
	Timelines          []Timeline    `json:"timelines"`
	Metadata           *Metadata     `json:"metadata,omitempty"`
}
