package types

import "time"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	SessionID     string `json:"sessionId"`
	Reply         string `json:"reply"`
	Source        string `json:"source"`
	Topic         string `json:"topic,omitempty"`
	FollowupCount int    `json:"followupCount"`
}

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
}

// InfoResponse carries the strings a chat front-end shows before the first turn.
type InfoResponse struct {
	Title       string `json:"title"`
	Caption     string `json:"caption"`
	Placeholder string `json:"placeholder"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
