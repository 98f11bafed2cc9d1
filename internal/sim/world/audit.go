package world

// AuditEntry is one interaction written to the session's JSONL audit log.
type AuditEntry struct {
	TimeUnixMs int64  `json:"t"`
	SessionID  string `json:"session_id"`
	Outcome    string `json:"outcome"`
	Code       string `json:"code,omitempty"`
	Cell       [2]int `json:"cell"`
	Content    int    `json:"content"`
	Held       int    `json:"held"`
	Win        bool   `json:"win,omitempty"`
}
