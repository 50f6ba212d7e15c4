package tui

import (
	"time"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

// Msg is the sealed interface for all focus view messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTick fires once per second.
type MsgTick struct {
	Time time.Time
}

func (MsgTick) sealed() {}

// MsgStepped carries the result of one session step.
type MsgStepped struct {
	Out *usecase.FocusStepOutput
	Err error
}

func (MsgStepped) sealed() {}

// MsgToggled is sent after a task was started or paused.
type MsgToggled struct {
	Err  error
	Task domain.Task
}

func (MsgToggled) sealed() {}

// MsgCompleted is sent after a task was finished by hand.
type MsgCompleted struct {
	Err        error
	Completion domain.Completion
}

func (MsgCompleted) sealed() {}

// MsgPaused is sent when the running task was paused before quitting.
type MsgPaused struct {
	Err error
}

func (MsgPaused) sealed() {}
