package dto

import "time"

const TypeFollow = "follow"

// Event is the payload published to a student's channel and forwarded to
// websocket clients as-is.
type Event struct {
	Type      string    `json:"type"`
	Actor     string    `json:"actor"`
	ActorName string    `json:"actorName"`
	ImgURL    string    `json:"imgUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
