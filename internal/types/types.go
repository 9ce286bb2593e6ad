package types

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Action   Action `json:"action"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Action tags which intent produced a chat reply. The set is closed; a new
// intent gets a new tag.
type Action string

const (
	ActionAdd      Action = "add"
	ActionShow     Action = "show"
	ActionDelete   Action = "delete"
	ActionGreeting Action = "greeting"
	ActionHelp     Action = "help"
	ActionUnknown  Action = "unknown"
)

// Actions lists every action tag in rule order.
var Actions = []Action{ActionAdd, ActionShow, ActionDelete, ActionGreeting, ActionHelp, ActionUnknown}

type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type TodoCreate struct {
	Title string `json:"title" validate:"required,notblank,max=500"`
}

type TodoUpdate struct {
	Completed *bool `json:"completed" validate:"required"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
