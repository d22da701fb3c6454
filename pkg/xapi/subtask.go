package xapi

// SubtaskKind identifies one step of the server-driven login flow.
// SubtaskUnknown carries any identifier the client does not recognize;
// the login loop never guesses how to answer it.
type SubtaskKind int

const (
	SubtaskUnknown SubtaskKind = iota
	SubtaskJSInstrumentation
	SubtaskEnterUserIdentifier
	SubtaskEnterPassword
	SubtaskAcid
	SubtaskAccountDuplicationCheck
	SubtaskTwoFactorChallenge
	SubtaskEnterAlternateIdentifier
	SubtaskSuccess
	SubtaskDenyLogin
)

// Wire identifiers.
const (
	IDJSInstrumentation        = "LoginJsInstrumentationSubtask"
	IDEnterUserIdentifier      = "LoginEnterUserIdentifierSSO"
	IDEnterPassword            = "LoginEnterPassword"
	IDAcid                     = "LoginAcid"
	IDAccountDuplicationCheck  = "AccountDuplicationCheck"
	IDTwoFactorChallenge       = "LoginTwoFactorAuthChallenge"
	IDEnterAlternateIdentifier = "LoginEnterAlternateIdentifierSubtask"
	IDSuccess                  = "LoginSuccessSubtask"
	IDDenyLogin                = "DenyLoginSubtask"
)

var subtaskKinds = map[string]SubtaskKind{
	IDJSInstrumentation:        SubtaskJSInstrumentation,
	IDEnterUserIdentifier:      SubtaskEnterUserIdentifier,
	IDEnterPassword:            SubtaskEnterPassword,
	IDAcid:                     SubtaskAcid,
	IDAccountDuplicationCheck:  SubtaskAccountDuplicationCheck,
	IDTwoFactorChallenge:       SubtaskTwoFactorChallenge,
	IDEnterAlternateIdentifier: SubtaskEnterAlternateIdentifier,
	IDSuccess:                  SubtaskSuccess,
	IDDenyLogin:                SubtaskDenyLogin,
}

// Subtask is a parsed subtask identifier. ID keeps the raw string so
// unknown subtasks can be reported verbatim.
type Subtask struct {
	Kind SubtaskKind
	ID   string
}

// ParseSubtask maps a wire identifier to a Subtask.
func ParseSubtask(id string) Subtask {
	return Subtask{Kind: subtaskKinds[id], ID: id}
}

func (s Subtask) String() string {
	if s.ID == "" {
		return "<none>"
	}
	return s.ID
}

// LoginState is the position of the login state machine.
type LoginState int

const (
	StateInit LoginState = iota
	StateJSInstrumentation
	StateEnterUserIdentifier
	StateEnterPassword
	StateAcid
	StateAccountDuplicationCheck
	StateTwoFactorChallenge
	StateEnterAlternateIdentifier
	StateFinalizing
	StateSuccess
	StateDenied
	StateError
)

var subtaskStates = map[SubtaskKind]LoginState{
	SubtaskJSInstrumentation:        StateJSInstrumentation,
	SubtaskEnterUserIdentifier:      StateEnterUserIdentifier,
	SubtaskEnterPassword:            StateEnterPassword,
	SubtaskAcid:                     StateAcid,
	SubtaskAccountDuplicationCheck:  StateAccountDuplicationCheck,
	SubtaskTwoFactorChallenge:       StateTwoFactorChallenge,
	SubtaskEnterAlternateIdentifier: StateEnterAlternateIdentifier,
	SubtaskSuccess:                  StateFinalizing,
	SubtaskDenyLogin:                StateDenied,
}

// stateFor returns the state entered when kind is dispatched. Unknown
// subtasks lead straight to StateError.
func stateFor(kind SubtaskKind) LoginState {
	if s, ok := subtaskStates[kind]; ok {
		return s
	}
	return StateError
}

// Terminal reports whether s ends the login state machine.
func (s LoginState) Terminal() bool {
	return s == StateSuccess || s == StateDenied || s == StateError
}

func (s LoginState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateJSInstrumentation:
		return "js-instrumentation"
	case StateEnterUserIdentifier:
		return "enter-identifier"
	case StateEnterPassword:
		return "enter-password"
	case StateAcid:
		return "email-verification"
	case StateAccountDuplicationCheck:
		return "duplicate-account-check"
	case StateTwoFactorChallenge:
		return "two-factor"
	case StateEnterAlternateIdentifier:
		return "alternate-identifier"
	case StateFinalizing:
		return "finalizing"
	case StateSuccess:
		return "success"
	case StateDenied:
		return "denied"
	case StateError:
		return "error"
	}
	return "unknown"
}
