package models

import (
	"time"
)

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Review holds no like/dislike counters; those are always counted from reactions.
type Review struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UserID         uint            `json:"user_id" gorm:"not null;index"`
	Rating         int             `json:"rating" gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment        string          `json:"comment" gorm:"type:text;not null"`
	SentimentScore *float64        `json:"sentiment_score"`
	SentimentLabel *SentimentLabel `json:"sentiment_label" gorm:"size:16"`
	IsFlagged      bool            `json:"is_flagged" gorm:"not null;default:false"`
	CreatedAt      time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relations
	User      User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reactions []Reaction `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ParseReactionType returns the reaction named by s, or false for anything else.
func ParseReactionType(s string) (ReactionType, bool) {
	switch ReactionType(s) {
	case ReactionLike:
		return ReactionLike, true
	case ReactionDislike:
		return ReactionDislike, true
	}
	return "", false
}

// Reaction is keyed by (review, user): one reaction per user per review.
type Reaction struct {
	ReviewID  uint         `json:"review_id" gorm:"primaryKey;autoIncrement:false"`
	UserID    uint         `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	Type      ReactionType `json:"type" gorm:"size:10;not null;check:chk_reactions_type,type IN ('like','dislike')"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Reaction) TableName() string {
	return "reactions"
}
