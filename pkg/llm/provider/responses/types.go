package responses

// responseRequest is the request body for the responses endpoint.
type responseRequest struct {
	Model              string         `json:"model"`
	Instructions       string         `json:"instructions,omitempty"`
	Input              []inputItem    `json:"input"`
	Stream             bool           `json:"stream"`
	Tools              []responseTool `json:"tools,omitempty"`
	PreviousResponseID string         `json:"previous_response_id,omitempty"`
}

// inputItem represents an item in the input array.
type inputItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseTool declares a built-in tool for the request.
type responseTool struct {
	Type string `json:"type"` // "web_search"
}

// streamEvent is the envelope of every typed SSE event the endpoint emits.
// The Type discriminator decides which of the other fields are populated.
type streamEvent struct {
	Type     string        `json:"type"`
	ItemID   string        `json:"item_id,omitempty"`
	Delta    string        `json:"delta,omitempty"`
	Item     *outputItem   `json:"item,omitempty"`
	Response *responseBody `json:"response,omitempty"`
}

// outputItem is one element of a response's output array: an assistant
// message, a web search call, a reasoning block, etc.
type outputItem struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"` // "message", "web_search_call", "reasoning"
	Role    string        `json:"role,omitempty"`
	Status  string        `json:"status,omitempty"`
	Content []contentPart `json:"content,omitempty"`
	Action  *searchAction `json:"action,omitempty"`
}

// searchAction describes what a web_search_call item did.
type searchAction struct {
	Type  string `json:"type"` // "search"
	Query string `json:"query,omitempty"`
}

// contentPart is a piece of message content, optionally annotated with
// citations indexing into its text by character offset.
type contentPart struct {
	Type        string       `json:"type"` // "output_text"
	Text        string       `json:"text,omitempty"`
	Annotations []annotation `json:"annotations,omitempty"`
}

// annotation is a citation attached to a content part.
type annotation struct {
	Type       string `json:"type"` // "url_citation"
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// responseBody is the response object carried by terminal events.
type responseBody struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"` // "completed", "failed", "incomplete"
	Error             *responseError     `json:"error,omitempty"`
	IncompleteDetails *incompleteDetails `json:"incomplete_details,omitempty"`
}

type responseError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type incompleteDetails struct {
	Reason string `json:"reason,omitempty"`
}
