package ws

import "time"

// TypeDecoded marks a decoded barcode payload.
const TypeDecoded = "decoded"

// Message is the JSON envelope written to the websocket.
type Message struct {
	Type string    `json:"type"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}
