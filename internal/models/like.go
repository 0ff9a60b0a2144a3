package models

// Like records that a user has liked a message.
type Like struct {
	UserID    uint `gorm:"primaryKey" json:"user_id"`
	MessageID uint `gorm:"primaryKey" json:"message_id"`
}

// TableName overrides the table name used by Like to `likes`
func (Like) TableName() string {
	return "likes"
}
