package models

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTimelineLimit is the number of messages shown on a home timeline.
const DefaultTimelineLimit = 100

// Message represents a short post owned by exactly one user.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:140;not null" validate:"required,max=140"`
	Timestamp time.Time `gorm:"column:timestamp;type:timestamp;not null"`
	UserID    uint      `gorm:"not null;index" validate:"required"`

	User *User `gorm:"foreignKey:UserID" validate:"-"` // Author, loaded on demand
}

// String renders the message for logs, e.g. "<Message_id: 1: hi, user_id: 2>".
func (m Message) String() string {
	return fmt.Sprintf("<Message_id: %d: %s, user_id: %d>", m.ID, m.Text, m.UserID)
}

// BeforeSave rejects empty or overlong text and a missing author.
func (m *Message) BeforeSave(tx *gorm.DB) error {
	return validateStruct(m)
}

// BeforeCreate stamps the message with the current time unless one is set.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = tx.NowFunc()
	}
	return nil
}

// newestFirst orders by timestamp, breaking ties on id so the order is stable.
var newestFirst = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Table: "messages", Name: "timestamp"}, Desc: true},
	{Column: clause.Column{Table: "messages", Name: "id"}, Desc: true},
}}

// CreateMessage stores text as a new message by user, stamped with the
// current time.
func CreateMessage(db *gorm.DB, user *User, text string) (*Message, error) {
	msg := &Message{Text: text, UserID: user.ID}
	if err := db.Omit(clause.Associations).Create(msg).Error; err != nil {
		return nil, translate(err)
	}

	logFor(db).WithFields(logrus.Fields{"user_id": user.ID, "message_id": msg.ID}).Debug("message created")
	return msg, nil
}

// GetMessage loads a message together with its author.
func GetMessage(db *gorm.DB, id uint) (*Message, error) {
	var msg Message
	if err := db.Preload("User").First(&msg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

// DeleteMessage removes message id if user wrote it. Someone else's message
// reports ErrNotFound, same as a missing one.
func DeleteMessage(db *gorm.DB, user *User, id uint) error {
	res := db.Where("id = ? AND user_id = ?", id, user.ID).Delete(&Message{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	logFor(db).WithFields(logrus.Fields{"user_id": user.ID, "message_id": id}).Debug("message deleted")
	return nil
}

// UserMessages returns up to limit of user's messages, newest first. A limit
// of zero or less means no limit.
func UserMessages(db *gorm.DB, user *User, limit int) ([]Message, error) {
	query := db.Where("user_id = ?", user.ID).Order(newestFirst)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var msgs []Message
	err := query.Find(&msgs).Error
	return msgs, translate(err)
}

// Timeline returns the newest messages written by user or by anyone user
// follows. A limit of zero or less uses DefaultTimelineLimit.
func Timeline(db *gorm.DB, user *User, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}

	followed := db.Model(&Follows{}).Select("user_being_followed_id").Where("user_following_id = ?", user.ID)

	var msgs []Message
	err := db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", user.ID, followed).
		Order(newestFirst).
		Limit(limit).
		Find(&msgs).Error
	return msgs, translate(err)
}
