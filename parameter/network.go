package parameter

import "time"

// Status server
const (
	ServerAddr         = ":8080"
	StreamInterval     = 100 * time.Millisecond // Snapshot broadcast cadence
	StreamBurst        = 1
	ClientSendQueue    = 16
	StreamWriteTimeout = 2 * time.Second
	ShutdownTimeout    = 5 * time.Second
	APIRateLimit       = 20 // Requests per second per server
	APIRateBurst       = 40
)
