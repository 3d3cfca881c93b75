package models

import "time"

// UserProfile represents an app user as seen by the push functions
type UserProfile struct {
	UserID     string    `bson:"userId" json:"userId"`
	FullName   string    `bson:"fullName" json:"fullName"`
	ProfilePic string    `bson:"profilePic" json:"profilePic"`
	PushToken  string    `bson:"pushToken" json:"pushToken"`
	UpdatedAt  time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
