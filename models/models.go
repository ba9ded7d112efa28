package models

type MessageType string

const (
	MessageChat  MessageType = "CHAT"
	MessageJoin  MessageType = "JOIN"
	MessageLeave MessageType = "LEAVE"
)

type ChatMessage struct {
	Content string      `json:"content"`
	Sender  string      `json:"sender"`
	Type    MessageType `json:"type" validate:"omitempty,oneof=CHAT JOIN LEAVE"`
}

type DrawEventType string

const (
	DrawStart DrawEventType = "START"
	DrawDraw  DrawEventType = "DRAW"
	DrawErase DrawEventType = "ERASE"
	DrawEnd   DrawEventType = "END"
	DrawClear DrawEventType = "CLEAR"
)

// DrawEvent coordinates are fractions of the client's canvas size; the server
// never interprets them.
type DrawEvent struct {
	Username  string        `json:"username"`
	Type      DrawEventType `json:"type" validate:"required,oneof=START DRAW ERASE END CLEAR"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Color     string        `json:"color"`
	LineWidth float64       `json:"lineWidth" validate:"gte=0"`
	IsEraser  bool          `json:"isEraser"`
}

const HistoryBatchType = "HISTORY_BATCH"

type HistoryBatch struct {
	Type   string      `json:"type"`
	Events []DrawEvent `json:"events"`
}

// Channel names an outbound delivery stream.
type Channel string

const (
	ChannelChat         Channel = "chat"
	ChannelWhiteboard   Channel = "whiteboard"
	ChannelHistoryBatch Channel = "whiteboard.history.batch"
)

// Inbound endpoints.
const (
	EndpointChatSend        = "chat.sendMessage"
	EndpointChatAddUser     = "chat.addUser"
	EndpointWhiteboardDraw  = "whiteboard.draw"
	EndpointWhiteboardClear = "whiteboard.clear"
	EndpointWhiteboardJoin  = "whiteboard.join"
)
