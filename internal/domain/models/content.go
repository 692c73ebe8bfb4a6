package models

import (
	"errors"
	"strings"
	"time"
)

// ContentType enumerates the kinds of content a Content row may group.
type ContentType string

const (
	ContentTypeReadingPassage ContentType = "reading_passage"
	ContentTypeVocabulary     ContentType = "vocabulary"
	ContentTypeDialogue       ContentType = "dialogue"
)

// IsValid reports whether t is a recognized content type.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeReadingPassage, ContentTypeVocabulary, ContentTypeDialogue:
		return true
	}
	return false
}

// Content groups an ordered list of ContentItem under a lesson.
type Content struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	LessonID  uint        `gorm:"index;not null" json:"lesson_id"`
	Type      ContentType `gorm:"type:varchar(30);not null" json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Items []ContentItem `gorm:"foreignKey:ContentID" json:"items,omitempty"`
}

// TableName specifies the table name for Content.
func (Content) TableName() string {
	return "contents"
}

// Validate validates the content data.
func (c *Content) Validate() error {
	if c.LessonID == 0 {
		return errors.New("lesson_id is required")
	}
	if !c.Type.IsValid() {
		return errors.New("type is invalid")
	}
	return nil
}

// ContentItem is a single assessable unit within a Content. ContentItems
// are immutable once referenced by a StudentItemProgress row; edits
// create new items rather than mutating referenced ones.
type ContentItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ContentID       uint      `gorm:"index;not null" json:"content_id"`
	OrderIndex      int       `gorm:"not null" json:"order_index"`
	ReferenceText   string    `gorm:"type:text;not null" json:"reference_text"`
	Translation     *string   `gorm:"type:text" json:"translation"`
	ReferenceAudioURL *string `gorm:"type:text" json:"reference_audio_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Content Content `gorm:"foreignKey:ContentID" json:"content,omitempty"`
}

// TableName specifies the table name for ContentItem.
func (ContentItem) TableName() string {
	return "content_items"
}

// Validate validates the content item data.
func (i *ContentItem) Validate() error {
	if i.ContentID == 0 {
		return errors.New("content_id is required")
	}
	if strings.TrimSpace(i.ReferenceText) == "" {
		return errors.New("reference_text is required")
	}
	if i.OrderIndex < 0 {
		return errors.New("order_index must be non-negative")
	}
	return nil
}
