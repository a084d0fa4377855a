package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	ResumeToken     string `json:"resume_token,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	ResumeToken     string      `json:"resume_token"`
	WorldParams     WorldParams `json:"world_params"`
	Hotbar          []string    `json:"hotbar"`
}

type WorldParams struct {
	TickRateHz       float64 `json:"tick_rate_hz"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Seed             int64   `json:"seed"`
	DayLengthSeconds float64 `json:"day_length_seconds"`
	ViewWidth        int     `json:"view_width"`
	ViewHeight       int     `json:"view_height"`
}

// INTENT (client -> server): the per-frame input record. Held booleans are
// level-triggered; the world samples them once per tick.
type IntentMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seq             uint64 `json:"seq"`
	MoveLeft        bool   `json:"move_left"`
	MoveRight       bool   `json:"move_right"`
	Jump            bool   `json:"jump"`
	PointerTileX    int    `json:"pointer_tile_x"`
	PointerTileY    int    `json:"pointer_tile_y"`
	MineHeld        bool   `json:"mine_held"`
	PlaceHeld       bool   `json:"place_held"`
	HotbarIndex     int    `json:"hotbar_index"`
}

// FRAME (server -> client): the read-only presentation snapshot for one
// tick.
type FrameMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	Tick            uint64        `json:"tick"`
	Time            float64       `json:"time"`
	Window          WindowObs     `json:"window"`
	Actor           ActorObs      `json:"actor"`
	Env             EnvObs        `json:"env"`
	Particles       []ParticleObs `json:"particles"`
	Inventory       []ItemStack   `json:"inventory"`
	Message         *NoticeObs    `json:"message,omitempty"`
}

// WindowObs is the visible tile window: origin in tile coordinates, RLE
// tiles row-major, and one shade factor per tile in the same order.
type WindowObs struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Encoding string    `json:"encoding"` // "RLE"
	Tiles    string    `json:"tiles"`
	Shade    []float64 `json:"shade"`
}

type ActorObs struct {
	Pos       [2]float64 `json:"pos"`
	Vel       [2]float64 `json:"vel"`
	Grounded  bool       `json:"grounded"`
	Facing    int        `json:"facing"`
	Health    float64    `json:"health"`
	MaxHealth float64    `json:"max_health"`
}

type EnvObs struct {
	DayTime   float64 `json:"day_time"` // 0..1
	Daytime   bool    `json:"daytime"`
	Weather   string  `json:"weather"`
	Intensity float64 `json:"intensity"`
	Darkness  float64 `json:"darkness"`
}

type ParticleObs struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	VX  float64 `json:"vx"`
	VY  float64 `json:"vy"`
	Len float64 `json:"len"`
}

type ItemStack struct {
	Tile  string `json:"tile"`
	Count int    `json:"count"`
}

// NoticeObs is a transient user-facing message with its remaining display
// time.
type NoticeObs struct {
	Text     string  `json:"text"`
	TimeLeft float64 `json:"time_left"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
