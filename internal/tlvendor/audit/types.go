package audit

// Action 审计动作，对应重定向流程的三个状态转移
type Action string

const (
	ActionRequested  Action = "requested"
	ActionReceived   Action = "received"
	ActionRedirected Action = "redirected"
)
