package entity

// ApprovalRequest carries the evidence required by the approval gate before a
// sensitive action (void, return, large stock adjustment) may proceed.
type ApprovalRequest struct {
	Reason     string `json:"reason"`
	ApproverID string `json:"approver_id"`
	Credential string `json:"credential"`
}
