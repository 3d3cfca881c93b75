package models

// PushNotification is the visible part of a push message
type PushNotification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Badge string `json:"badge"`
	Sound string `json:"sound"`
}

// PushData is the data block delivered alongside the notification
type PushData struct {
	ProfilePic string `json:"profilePic"`
}

// PushPayload is what gets delivered to a device push token
type PushPayload struct {
	Notification PushNotification `json:"notification"`
	Data         PushData         `json:"data"`
}
