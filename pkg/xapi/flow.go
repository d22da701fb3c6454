package xapi

// Request and response shapes of the onboarding task endpoint.

type flowStartLocation struct {
	Location string `json:"location"`
}

type flowContext struct {
	DebugOverrides struct{}          `json:"debug_overrides"`
	StartLocation  flowStartLocation `json:"start_location"`
}

type inputFlowData struct {
	FlowContext flowContext `json:"flow_context"`
}

type flowInitRequest struct {
	FlowName      string        `json:"flow_name"`
	InputFlowData inputFlowData `json:"input_flow_data"`
}

func newFlowInitRequest() flowInitRequest {
	return flowInitRequest{
		FlowName: loginFlowName,
		InputFlowData: inputFlowData{
			FlowContext: flowContext{
				StartLocation: flowStartLocation{Location: loginStartLocation},
			},
		},
	}
}

type flowTaskRequest struct {
	FlowToken     string         `json:"flow_token"`
	SubtaskInputs []subtaskInput `json:"subtask_inputs"`
}

// SubtaskRef is one entry of a flow response's subtask list.
type SubtaskRef struct {
	SubtaskID string `json:"subtask_id"`
}

// APIMessage is an entry of an errors array in an API response.
type APIMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FlowResponse is the body returned by every flow-task round.
type FlowResponse struct {
	FlowToken string       `json:"flow_token"`
	Status    string       `json:"status"`
	Subtasks  []SubtaskRef `json:"subtasks"`
	Errors    []APIMessage `json:"errors"`
}

// hasDeny reports whether DenyLoginSubtask appears anywhere in the list.
func (r *FlowResponse) hasDeny() bool {
	for _, s := range r.Subtasks {
		if s.SubtaskID == IDDenyLogin {
			return true
		}
	}
	return false
}

// next returns the subtask to dispatch: only the first one counts.
func (r *FlowResponse) next() (Subtask, bool) {
	if len(r.Subtasks) == 0 {
		return Subtask{}, false
	}
	return ParseSubtask(r.Subtasks[0].SubtaskID), true
}

const linkNext = "next_link"

// subtaskInput is a single element of subtask_inputs. Exactly one of the
// payload fields is set per subtask.
type subtaskInput struct {
	SubtaskID            string             `json:"subtask_id"`
	JSInstrumentation    *jsInstrumentation `json:"js_instrumentation,omitempty"`
	SettingsList         *settingsList      `json:"settings_list,omitempty"`
	EnterPassword        *enterPassword     `json:"enter_password,omitempty"`
	EnterText            *enterText         `json:"enter_text,omitempty"`
	CheckLoggedInAccount *linkOnly          `json:"check_logged_in_account,omitempty"`
}

type jsInstrumentation struct {
	Response string `json:"response"`
	Link     string `json:"link"`
}

type textData struct {
	Result string `json:"result"`
}

type responseData struct {
	TextData textData `json:"text_data"`
}

type settingResponse struct {
	Key          string       `json:"key"`
	ResponseData responseData `json:"response_data"`
}

type settingsList struct {
	SettingResponses []settingResponse `json:"setting_responses"`
	Link             string            `json:"link"`
}

type enterPassword struct {
	Password string `json:"password"`
	Link     string `json:"link"`
}

type enterText struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

type linkOnly struct {
	Link string `json:"link"`
}

func jsInstrumentationInput() []subtaskInput {
	return []subtaskInput{{
		SubtaskID:         IDJSInstrumentation,
		JSInstrumentation: &jsInstrumentation{Response: "{}", Link: linkNext},
	}}
}

func userIdentifierInput(username string) []subtaskInput {
	return []subtaskInput{{
		SubtaskID: IDEnterUserIdentifier,
		SettingsList: &settingsList{
			SettingResponses: []settingResponse{{
				Key:          "user_identifier",
				ResponseData: responseData{TextData: textData{Result: username}},
			}},
			Link: linkNext,
		},
	}}
}

func passwordInput(password string) []subtaskInput {
	return []subtaskInput{{
		SubtaskID:     IDEnterPassword,
		EnterPassword: &enterPassword{Password: password, Link: linkNext},
	}}
}

func enterTextInput(id, text string) []subtaskInput {
	return []subtaskInput{{
		SubtaskID: id,
		EnterText: &enterText{Text: text, Link: linkNext},
	}}
}

func duplicationCheckInput() []subtaskInput {
	return []subtaskInput{{
		SubtaskID:            IDAccountDuplicationCheck,
		CheckLoggedInAccount: &linkOnly{Link: "AccountDuplicationCheck_false"},
	}}
}
