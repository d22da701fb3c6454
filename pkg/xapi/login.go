package xapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xplore-go/xplore/pkg/totp"
)

// Credentials are the inputs the login flow may ask for. Email and
// TwoFactorSecret are optional; they are only required when the server
// asks for them.
type Credentials struct {
	Username string
	Password string
	Email    string
	// TwoFactorSecret is the TOTP secret. The base32 form shown by
	// authenticator apps is decoded; anything that does not decode to at
	// least 10 bytes is used as raw bytes.
	TwoFactorSecret string
}

// LoginError reports where a login attempt stopped. Round 0 covers the
// guest token and the flow start.
type LoginError struct {
	Round   int
	Subtask Subtask
	State   LoginState
	Err     error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed at round %d (state %s, subtask %s): %v", e.Round, e.State, e.Subtask, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

type subtaskHandler func(c *Client, creds Credentials) ([]subtaskInput, error)

var subtaskHandlers = map[SubtaskKind]subtaskHandler{
	SubtaskJSInstrumentation: func(*Client, Credentials) ([]subtaskInput, error) {
		return jsInstrumentationInput(), nil
	},
	SubtaskEnterUserIdentifier: func(_ *Client, creds Credentials) ([]subtaskInput, error) {
		return userIdentifierInput(creds.Username), nil
	},
	SubtaskEnterPassword: func(_ *Client, creds Credentials) ([]subtaskInput, error) {
		return passwordInput(creds.Password), nil
	},
	SubtaskAcid: func(_ *Client, creds Credentials) ([]subtaskInput, error) {
		if creds.Email == "" {
			return nil, authError(ErrEmailRequired)
		}
		return enterTextInput(IDAcid, creds.Email), nil
	},
	SubtaskAccountDuplicationCheck: func(*Client, Credentials) ([]subtaskInput, error) {
		return duplicationCheckInput(), nil
	},
	SubtaskTwoFactorChallenge: func(c *Client, creds Credentials) ([]subtaskInput, error) {
		if creds.TwoFactorSecret == "" {
			return nil, authError(ErrTwoFactorRequired)
		}
		code, err := totp.Generate(twoFactorKey(creds.TwoFactorSecret), c.now())
		if err != nil {
			return nil, authError(err)
		}
		return enterTextInput(IDTwoFactorChallenge, code), nil
	},
	SubtaskEnterAlternateIdentifier: func(_ *Client, creds Credentials) ([]subtaskInput, error) {
		if creds.Email == "" {
			return nil, authError(ErrEmailRequired)
		}
		return enterTextInput(IDEnterAlternateIdentifier, creds.Email), nil
	},
	SubtaskSuccess: func(*Client, Credentials) ([]subtaskInput, error) {
		return []subtaskInput{}, nil
	},
	SubtaskDenyLogin: func(*Client, Credentials) ([]subtaskInput, error) {
		return nil, authError(ErrLoginDenied)
	},
}

func twoFactorKey(secret string) []byte {
	if b, err := totp.DecodeSecret(secret); err == nil {
		return b
	}
	return []byte(secret)
}

func (c *Client) setLoginState(s LoginState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginState = s
}

// LastLoginState reports where the most recent login attempt stopped.
func (c *Client) LastLoginState() LoginState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginState
}

// Login runs the server-driven login flow until the server stops asking for
// subtasks. Only the first subtask of each response is answered. Cookies set
// along the way stay in the jar even when the attempt fails.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	c.setLoginState(StateInit)
	c.log.Info("starting login flow")

	if err := c.RefreshGuestToken(ctx); err != nil {
		return c.loginFailed(0, Subtask{}, StateInit, err)
	}
	flow, err := c.executeFlowTask(ctx, newFlowInitRequest())
	if err != nil {
		return c.loginFailed(0, Subtask{}, StateInit, err)
	}

	state := StateInit
	var sub Subtask
	for round := 1; ; round++ {
		if err := checkFlowResponse(flow); err != nil {
			if flow.hasDeny() {
				state = StateDenied
			}
			return c.loginFailed(round-1, sub, state, err)
		}

		next, ok := flow.next()
		if !ok {
			break
		}
		sub = next
		if round > c.maxRounds {
			return c.loginFailed(round, sub, state, authError(ErrTooManyRounds))
		}

		state = stateFor(sub.Kind)
		c.setLoginState(state)
		c.log.Debug("round %d: dispatching %s", round, sub)

		handler, ok := subtaskHandlers[sub.Kind]
		if !ok {
			return c.loginFailed(round, sub, StateError, authError(fmt.Errorf("%w: %s", ErrUnhandledSubtask, sub.ID)))
		}
		inputs, err := handler(c, creds)
		if err != nil {
			return c.loginFailed(round, sub, state, err)
		}
		if flow.FlowToken == "" {
			return c.loginFailed(round, sub, state, &Error{Kind: KindInvalidResponse, Msg: "missing flow_token"})
		}

		flow, err = c.executeFlowTask(ctx, flowTaskRequest{FlowToken: flow.FlowToken, SubtaskInputs: inputs})
		if err != nil {
			return c.loginFailed(round, sub, state, err)
		}
	}

	c.setLoginState(StateSuccess)
	if !c.jar.ValidateAuthenticated() {
		c.log.Warning("login flow completed without %s and %s cookies", CSRFCookie, AuthCookie)
	}
	c.log.Info("login flow completed")
	return nil
}

// checkFlowResponse rejects responses carrying an errors array or a deny
// subtask in any position.
func checkFlowResponse(flow *FlowResponse) error {
	if len(flow.Errors) > 0 {
		return &Error{Kind: KindAuth, Msg: flow.Errors[0].Message}
	}
	if flow.hasDeny() {
		return authError(ErrLoginDenied)
	}
	return nil
}

func (c *Client) loginFailed(round int, sub Subtask, state LoginState, err error) error {
	c.setLoginState(state)
	c.log.Warning("login failed at round %d (%s): %v", round, state, err)
	return &LoginError{Round: round, Subtask: sub, State: state, Err: err}
}

// executeFlowTask posts one round to the task endpoint. Execute merges the
// cookies it sets.
func (c *Client) executeFlowTask(ctx context.Context, body any) (*FlowResponse, error) {
	var flow FlowResponse
	if _, err := c.Execute(ctx, http.MethodPost, c.URL(FlowTaskPath), JSONBody{Value: body}, &flow); err != nil {
		return nil, err
	}
	c.log.Debug("flow task: %d subtasks", len(flow.Subtasks))
	return &flow, nil
}
