package pipeline

// Stage identifies a step in the request pipeline.
type Stage string

const (
	StageValidate   Stage = "validate"
	StageNormalize  Stage = "normalize"
	StageTranscribe Stage = "transcribe"
	StageTranslate  Stage = "translate"
)

// EventKind is the lifecycle phase of a stage event.
type EventKind string

const (
	StageEntered   EventKind = "entered"
	StageCompleted EventKind = "completed"
	StageFailed    EventKind = "failed"
)

// Event is one discrete lifecycle notification. Front-ends subscribe to
// these for progress display; the orchestrator itself never depends on what
// a subscriber does with them.
type Event struct {
	Stage  Stage
	Kind   EventKind
	Detail string // optional, e.g. the language candidate being tried
	Err    error  // set on StageFailed
}

// Observer receives lifecycle events for one request. May be nil.
type Observer func(Event)

func (o Observer) emit(e Event) {
	if o != nil {
		o(e)
	}
}
