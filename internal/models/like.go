package models

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Like records that a user endorses a message. It disappears with either
// the user or the message.
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	MessageID uint `gorm:"primaryKey;autoIncrement:false"`

	User    User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Message Message `gorm:"foreignKey:MessageID;references:ID;constraint:OnDelete:CASCADE;"`
}

// TableName overrides the table name used by GORM.
func (Like) TableName() string {
	return "likes"
}

// AddLike records that user likes msg. Users cannot like their own messages,
// and liking twice fails with ErrIntegrity.
func AddLike(db *gorm.DB, user *User, msg *Message) error {
	if msg.UserID == user.ID {
		return ErrCannotLikeOwnMessage
	}

	like := Like{UserID: user.ID, MessageID: msg.ID}
	if err := db.Omit(clause.Associations).Create(&like).Error; err != nil {
		return translate(err)
	}

	logFor(db).WithFields(logrus.Fields{"user_id": user.ID, "message_id": msg.ID}).Debug("like added")
	return nil
}

// RemoveLike deletes user's like of msg, or returns ErrNotFound.
func RemoveLike(db *gorm.DB, user *User, msg *Message) error {
	res := db.Where("user_id = ? AND message_id = ?", user.ID, msg.ID).Delete(&Like{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	logFor(db).WithFields(logrus.Fields{"user_id": user.ID, "message_id": msg.ID}).Debug("like removed")
	return nil
}

// ToggleLike likes msg if user has not yet, otherwise unlikes it, and reports
// whether the message is liked afterwards.
func ToggleLike(db *gorm.DB, user *User, msg *Message) (bool, error) {
	var liked bool
	err := db.Transaction(func(tx *gorm.DB) error {
		exists, err := user.IsLiking(tx, msg)
		if err != nil {
			return err
		}
		if exists {
			return RemoveLike(tx, user, msg)
		}
		liked = true
		return AddLike(tx, user, msg)
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// IsLiking reports whether u likes msg.
func (u *User) IsLiking(db *gorm.DB, msg *Message) (bool, error) {
	var like Like
	err := db.Where("user_id = ? AND message_id = ?", u.ID, msg.ID).Take(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translate(err)
	}
	return true, nil
}

// LikedMessages returns the messages u likes, newest first, with authors.
func (u *User) LikedMessages(db *gorm.DB) ([]Message, error) {
	var msgs []Message
	err := db.Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", u.ID).
		Order(newestFirst).
		Find(&msgs).Error
	return msgs, translate(err)
}
