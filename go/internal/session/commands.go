package session

import (
	"fmt"

	"github.com/mcdev12/partyvote/go/internal/apperr"
)

// Action names a session transition on the wire
type Action string

const (
	ActionNextQuestion     Action = "next_question"
	ActionPreviousQuestion Action = "previous_question"
	ActionGoToQuestion     Action = "go_to_question"
	ActionRevealTwist      Action = "reveal_twist"
	ActionStartRevealing   Action = "start_revealing"
	ActionExtendTime       Action = "extend_time"
	ActionSetDuration      Action = "set_duration"
	ActionRestartTimer     Action = "restart_timer"
	ActionResetGame        Action = "reset_game"
)

const (
	defaultExtendSeconds   = 60
	defaultDurationSeconds = 180
)

// Command is a session transition. The set of implementations is closed:
// only the types in this file satisfy it.
type Command interface {
	Action() Action
	isCommand()
}

// NextQuestion advances to the next active question, or completes the game
// after the last one.
type NextQuestion struct{}

// PreviousQuestion steps back one question, clamped at the first.
type PreviousQuestion struct{}

// GoToQuestion jumps to a position in the active question list.
type GoToQuestion struct {
	Index int
}

// RevealTwist shows the final framing of the current question.
type RevealTwist struct{}

// StartRevealing marks the twist sequence as started.
type StartRevealing struct{}

// ExtendTime adds seconds to the voting window without restarting it.
type ExtendTime struct {
	Seconds int
}

// SetDuration replaces the voting window length.
type SetDuration struct {
	Seconds int
}

// RestartTimer restarts voting on the current question.
type RestartTimer struct{}

// ResetGame returns to the first active question with a fresh timer.
type ResetGame struct{}

func (NextQuestion) Action() Action     { return ActionNextQuestion }
func (PreviousQuestion) Action() Action { return ActionPreviousQuestion }
func (GoToQuestion) Action() Action     { return ActionGoToQuestion }
func (RevealTwist) Action() Action      { return ActionRevealTwist }
func (StartRevealing) Action() Action   { return ActionStartRevealing }
func (ExtendTime) Action() Action       { return ActionExtendTime }
func (SetDuration) Action() Action      { return ActionSetDuration }
func (RestartTimer) Action() Action     { return ActionRestartTimer }
func (ResetGame) Action() Action        { return ActionResetGame }

func (NextQuestion) isCommand()     {}
func (PreviousQuestion) isCommand() {}
func (GoToQuestion) isCommand()     {}
func (RevealTwist) isCommand()      {}
func (StartRevealing) isCommand()   {}
func (ExtendTime) isCommand()       {}
func (SetDuration) isCommand()      {}
func (RestartTimer) isCommand()     {}
func (ResetGame) isCommand()        {}

// ParseCommand decodes a wire transition into its Command. Omitted seconds
// default to 60 for extend_time and 180 for set_duration.
func ParseCommand(req TransitionRequest) (Command, error) {
	switch Action(req.Action) {
	case ActionNextQuestion:
		return NextQuestion{}, nil
	case ActionPreviousQuestion:
		return PreviousQuestion{}, nil
	case ActionGoToQuestion:
		if req.QuestionIndex == nil {
			return nil, apperr.Invalid("question_index is required", "question_index")
		}
		return GoToQuestion{Index: *req.QuestionIndex}, nil
	case ActionRevealTwist:
		return RevealTwist{}, nil
	case ActionStartRevealing:
		return StartRevealing{}, nil
	case ActionExtendTime:
		return ExtendTime{Seconds: orDefault(req.Seconds, defaultExtendSeconds)}, nil
	case ActionSetDuration:
		return SetDuration{Seconds: orDefault(req.Seconds, defaultDurationSeconds)}, nil
	case ActionRestartTimer:
		return RestartTimer{}, nil
	case ActionResetGame:
		return ResetGame{}, nil
	case "":
		return nil, apperr.Invalid("action is required", "action")
	}
	return nil, apperr.Invalid(fmt.Sprintf("unknown action %q", req.Action), "action")
}

func orDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
