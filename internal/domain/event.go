package domain

// Inbound socket events.
const (
	EventRegister    = "register"
	EventSendMessage = "send_message"
	EventSendReplay  = "send_replay"

	EventJoinRoom         = "join_room"
	EventEndCall          = "end_call"
	EventJoinCallAudio    = "join_call_a"
	EventJoinCallVideo    = "join_call_v"
	EventEndCallAudio     = "end_call_a"
	EventIncomingCallA    = "incoming_call_a"
	EventGroupVideoCall   = "groupvideocall"
	EventIncomingCall     = "incoming_call"
	EventIncomingCallRing = "____incoming_call____"
	EventReceiveCall      = "____recive_call____"
	EventCallEnd          = "callend"
	EventLoadData         = "__load_data__"
	EventSee              = "see"
)

// Outbound socket events.
const (
	EventReceiveMessage = "receive_message"
	EventReplay         = "replay"
	EventSendFailed     = "send_failed"
)

// SignalingEvents are relayed to every other connection untouched.
var SignalingEvents = []string{
	EventJoinRoom,
	EventEndCall,
	EventJoinCallAudio,
	EventJoinCallVideo,
	EventEndCallAudio,
	EventIncomingCallA,
	EventGroupVideoCall,
	EventIncomingCall,
	EventIncomingCallRing,
	EventReceiveCall,
	EventCallEnd,
	EventLoadData,
	EventSee,
}

// SendFailure is the optional notice sent back when send_message could not be stored.
type SendFailure struct {
	Event string `json:"event"`
	Error string `json:"error"`
}
