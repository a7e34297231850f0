package api

import (
	"github.com/mattjoyce/simdeck/internal/runner"
)

// ActionRequest is the JSON body for POST /targets/{udid}/actions.
type ActionRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// ActionResponse reports the Result of one action.
type ActionResponse struct {
	RequestID string      `json:"request_id"`
	Action    string      `json:"action"`
	Target    string      `json:"target"`
	OK        bool        `json:"ok"`
	Kind      runner.Kind `json:"kind,omitempty"`
	Message   string      `json:"message,omitempty"`
	Subject   any         `json:"subject,omitempty"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ActiveTargets int    `json:"active_targets"`
}
