// Package progress defines the progress event types reported by the
// metadata, download and pronounce packages.
//
// Consumers pass a callback when constructing a manager and render the
// events however they like (plain stderr lines in the CLI, a log pane
// in the TUI):
//
//	onProgress := func(event progress.Event) {
//	    fmt.Println(event.Message)
//	}
package progress

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event represents a progress update.
type Event struct {
	Message string
	Level   Level
}

// Func receives progress events. A nil Func is always safe to call
// through Emit.
type Func func(Event)

// Emit calls f with a new event, tolerating a nil callback.
func (f Func) Emit(level Level, message string) {
	if f != nil {
		f(Event{Message: message, Level: level})
	}
}
