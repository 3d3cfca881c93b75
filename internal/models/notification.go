package models

// Notification is a record created under a user's notifications
type Notification struct {
	ID      string `bson:"_id" json:"id"`
	UserID  string `bson:"userId" json:"userId"`
	Message string `bson:"message" json:"message"`
}

// NotificationCreatedEvent fires when a notification record is inserted
type NotificationCreatedEvent struct {
	UserID         string
	NotificationID string
	Message        string
}
