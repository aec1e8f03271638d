package ws

const (
	// client - server
	MsgSpin  = "spin"
	MsgReset = "reset"
	MsgPing  = "ping"

	// server - client
	MsgReady  = "ready"
	MsgFrame  = "frame"
	MsgResult = "result"
	MsgState  = "state"
	MsgPong   = "pong"
	MsgError  = "error"
)
