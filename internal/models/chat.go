package models

// ChatMessage is a message posted to a chat room
type ChatMessage struct {
	ID       string `bson:"_id" json:"id"`
	ChatRoom string `bson:"chatRoom" json:"chatRoom"`
	Sender   string `bson:"sender" json:"sender"`
	To       string `bson:"to" json:"to"`
	Message  string `bson:"message" json:"message"`
}

// ChatMessageCreatedEvent fires when a chat message is inserted
type ChatMessageCreatedEvent struct {
	ChatRoom  string
	MessageID string
	Sender    string
	To        string
	Message   string
}
