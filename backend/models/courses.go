package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        float64         `json:"price"`
	ThumbnailURL string          `json:"thumbnail"`
	Ratings      float64         `json:"ratings"` // average of Reviews ratings, zero while there are none
	Contents     []CourseContent `json:"courseData" gorm:"foreignKey:CourseID"`
	Reviews      []Review        `json:"reviews" gorm:"foreignKey:CourseID"`
}

type CourseContent struct {
	gorm.Model
	CourseID    uint       `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	VideoLength int        `json:"videoLength,omitempty"` // minutes
	Suggestion  string     `json:"suggestion,omitempty"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:ContentID"`
}

type Question struct {
	gorm.Model
	ContentID uint            `json:"content_id"`
	UserID    uint            `json:"user_id"`
	UserName  string          `json:"user_name"`
	UserEmail string          `json:"-"` // snapshot for the reply mail, never serialized out
	Text      string          `json:"question"`
	Replies   []QuestionReply `json:"questionReplies" gorm:"foreignKey:QuestionID"`
}

type QuestionReply struct {
	gorm.Model
	QuestionID uint   `json:"question_id"`
	UserID     uint   `json:"user_id"`
	UserName   string `json:"user_name"`
	Text       string `json:"answer"`
}

type Review struct {
	gorm.Model
	CourseID uint    `json:"course_id"`
	UserID   uint    `json:"user_id"`
	UserName string  `json:"user_name"`
	Comment  string  `json:"comment"`
	Rating   float64 `json:"rating"`
}

// Redacted returns a copy safe for the public catalog: per-content video
// URLs, suggestions and Q&A threads are stripped so they cannot be read
// off the wire without enrollment.
func (c Course) Redacted() Course {
	contents := make([]CourseContent, len(c.Contents))
	for i, content := range c.Contents {
		content.VideoURL = ""
		content.Suggestion = ""
		content.Questions = nil
		contents[i] = content
	}
	c.Contents = contents
	return c
}
