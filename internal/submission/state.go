package submission

// State is a step of the submission workflow.
type State int

// Workflow states.
const (
	Editing State = iota
	Validating
	Uploading
	Persisting
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Uploading:
		return "uploading"
	case Persisting:
		return "persisting"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

// Event moves the workflow between states.
type Event int

// Workflow events.
const (
	EventSubmit Event = iota
	EventValid
	EventInvalid
	EventUploaded
	EventUploadFailed
	EventPersisted
	EventPersistFailed
	EventReset
)

// Effect is the side effect the driver performs after a transition.
type Effect int

// Effects requested by transitions.
const (
	EffectNone Effect = iota
	EffectValidate
	EffectUpload
	// EffectNotifyAndPersist dispatches the notification without waiting and then persists.
	EffectNotifyAndPersist
	EffectReportError
	EffectConfirm
)

// Next is the transition function. An event that is not valid in s leaves
// the state unchanged with EffectNone.
func Next(s State, e Event) (State, Effect) {
	switch s {
	case Editing:
		if e == EventSubmit {
			return Validating, EffectValidate
		}
	case Validating:
		switch e {
		case EventValid:
			return Uploading, EffectUpload
		case EventInvalid:
			return Editing, EffectReportError
		}
	case Uploading:
		switch e {
		case EventUploaded:
			return Persisting, EffectNotifyAndPersist
		case EventUploadFailed:
			return Editing, EffectReportError
		}
	case Persisting:
		switch e {
		case EventPersisted:
			return Submitted, EffectConfirm
		case EventPersistFailed:
			return Editing, EffectReportError
		}
	case Submitted:
		if e == EventReset {
			return Editing, EffectNone
		}
	}
	return s, EffectNone
}
