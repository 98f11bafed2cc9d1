package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
	// SessionID resumes a previously saved session; empty starts fresh.
	SessionID string `json:"session_id,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
	Pos             [2]int      `json:"pos"`
	Held            int         `json:"held"`
	Resumed         bool        `json:"resumed,omitempty"`
}

type WorldParams struct {
	Seed               int64   `json:"seed"`
	TileDegrees        float64 `json:"tile_degrees"`
	NeighborhoodRadius int     `json:"neighborhood_radius"`
	InteractRadius     int     `json:"interact_radius"`
	SpawnPermille      int     `json:"spawn_permille"`
	WinThreshold       int     `json:"win_threshold"`
}

// VIEW (server -> client): the full neighborhood after a position change,
// plus the diff against the previous one.
type ViewMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Center          [2]int     `json:"center"`
	Held            int        `json:"held"`
	Cells           []CellView `json:"cells"`
	Entered         [][2]int   `json:"entered,omitempty"`
	Exited          [][2]int   `json:"exited,omitempty"`
}

// CellView is one renderable cell descriptor.
type CellView struct {
	Cell        [2]int `json:"cell"`
	Content     int    `json:"content"`
	Interactive bool   `json:"interactive"`
}

// CLICK (client -> server)
type ClickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Cell            [2]int `json:"cell"`
}

// CLICK_RESULT (server -> client)
type ClickResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ref             string `json:"ref"`
	OK              bool   `json:"ok"`
	Outcome         string `json:"outcome"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Cell            [2]int `json:"cell"`
	Content         int    `json:"content"`
	Held            int    `json:"held"`
	Win             bool   `json:"win,omitempty"`
}

// MOVE (client -> server): one directional step. Dir is N, S, E or W.
type MoveMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Dir             string `json:"dir"`
}

// GEO_FIX (client -> server): an external positioning fix.
type GeoFixMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
}

// SET_SOURCE (client -> server): switch the active movement source.
// Source is STEP or GEO.
type SetSourceMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Source          string `json:"source"`
}

// SAVE (client -> server)
type SaveMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// SAVED (server -> client)
type SavedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Path            string `json:"path,omitempty"`
}
