package models

// Friend links a user to another user by name.
type Friend struct {
	UserID     string `json:"user_id"`
	FriendName string `json:"friend_name"`
}

// User is a registered application user.
type User struct {
	Username string `json:"username"`
}
