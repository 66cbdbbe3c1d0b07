package model

// StatusResult is a normalized status-page lookup outcome. It is built fresh
// per request by the resolver and consumed once by the dialogue flow.
type StatusResult struct {
	FullName   string
	StatusText string
	Found      bool
}
