// internal/dify/types.go
package dify

// chatRequest is the chat endpoint request body. Files is always present
// (as an empty list when nothing is attached) to match the backend's schema.
type chatRequest struct {
	Inputs         map[string]string `json:"inputs"`
	Query          string            `json:"query"`
	ConversationID string            `json:"conversation_id,omitempty"`
	User           string            `json:"user"`
	ResponseMode   string            `json:"response_mode"`
	Files          []any             `json:"files"`
}

// conversationsResponse is the conversation list endpoint body.
type conversationsResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// messagesResponse is the history endpoint body, one record per exchange.
type messagesResponse struct {
	Data []struct {
		ID     string            `json:"id"`
		Query  string            `json:"query"`
		Answer string            `json:"answer"`
		Inputs map[string]string `json:"inputs"`
	} `json:"data"`
}

// inputControl is one form control description inside user_input_form.
type inputControl struct {
	Label    string `json:"label"`
	Variable string `json:"variable"`
	Required bool   `json:"required"`
}

// parametersResponse is the parameters endpoint body. Each user_input_form
// entry is keyed by control type (e.g. "text-input").
type parametersResponse struct {
	UserInputForm []map[string]inputControl `json:"user_input_form"`
}
