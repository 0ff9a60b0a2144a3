package models

// Follow is a directed edge: FollowerID follows FollowedID.
// (A follows B) does not imply (B follows A).
type Follow struct {
	FollowerID uint `gorm:"primaryKey" json:"follower_id"`
	FollowedID uint `gorm:"primaryKey" json:"followed_id"`
}

// TableName overrides the table name used by Follow to `follows`
func (Follow) TableName() string {
	return "follows"
}
