package models

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follows is a directed edge: UserFollowing receives the messages of
// UserBeingFollowed. The primary key is the pair, so an edge exists at most
// once. Both ends cascade on delete.
type Follows struct {
	UserBeingFollowedID uint `gorm:"primaryKey;autoIncrement:false"`
	UserFollowingID     uint `gorm:"primaryKey;autoIncrement:false"`

	UserBeingFollowed User `gorm:"foreignKey:UserBeingFollowedID;references:ID;constraint:OnDelete:CASCADE;"`
	UserFollowing     User `gorm:"foreignKey:UserFollowingID;references:ID;constraint:OnDelete:CASCADE;"`
}

// TableName overrides the table name used by GORM.
func (Follows) TableName() string {
	return "follows"
}

// Follow makes follower follow followee. Following yourself is rejected;
// following twice fails with ErrIntegrity.
func Follow(db *gorm.DB, follower, followee *User) error {
	if follower.ID == followee.ID {
		return ErrCannotFollowSelf
	}

	edge := Follows{UserBeingFollowedID: followee.ID, UserFollowingID: follower.ID}
	if err := db.Omit(clause.Associations).Create(&edge).Error; err != nil {
		return translate(err)
	}

	logFor(db).WithFields(logrus.Fields{"user_id": follower.ID, "followed_id": followee.ID}).Debug("follow created")
	return nil
}

// Unfollow removes the edge from follower to followee, or returns ErrNotFound
// when there is none.
func Unfollow(db *gorm.DB, follower, followee *User) error {
	res := db.Where("user_being_followed_id = ? AND user_following_id = ?", followee.ID, follower.ID).Delete(&Follows{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	logFor(db).WithFields(logrus.Fields{"user_id": follower.ID, "followed_id": followee.ID}).Debug("follow removed")
	return nil
}

// IsFollowing reports whether u follows other.
func (u *User) IsFollowing(db *gorm.DB, other *User) (bool, error) {
	return edgeExists(db, u.ID, other.ID)
}

// IsFollowedBy reports whether other follows u.
func (u *User) IsFollowedBy(db *gorm.DB, other *User) (bool, error) {
	return edgeExists(db, other.ID, u.ID)
}

func edgeExists(db *gorm.DB, followingID, followedID uint) (bool, error) {
	var edge Follows
	err := db.Where("user_following_id = ? AND user_being_followed_id = ?", followingID, followedID).
		Take(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translate(err)
	}
	return true, nil
}

// Following lists the users u follows, ordered by username.
func (u *User) Following(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Where("id IN (?)",
		db.Model(&Follows{}).Select("user_being_followed_id").Where("user_following_id = ?", u.ID)).
		Order("username").
		Find(&users).Error
	return users, translate(err)
}

// Followers lists the users following u, ordered by username.
func (u *User) Followers(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Where("id IN (?)",
		db.Model(&Follows{}).Select("user_following_id").Where("user_being_followed_id = ?", u.ID)).
		Order("username").
		Find(&users).Error
	return users, translate(err)
}

// FollowingCount returns how many users u follows.
func (u *User) FollowingCount(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&Follows{}).Where("user_following_id = ?", u.ID).Count(&n).Error
	return n, translate(err)
}

// FollowerCount returns how many users follow u.
func (u *User) FollowerCount(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&Follows{}).Where("user_being_followed_id = ?", u.ID).Count(&n).Error
	return n, translate(err)
}
