package entities

import (
	"strings"
	"time"
)

type ReadingStatus string

const (
	ReadingStatusWant      ReadingStatus = "WANT"
	ReadingStatusReading   ReadingStatus = "READING"
	ReadingStatusCompleted ReadingStatus = "COMPLETED"
	ReadingStatusDropped   ReadingStatus = "DROPPED"
)

// ReadingStatuses lists every status in display order.
var ReadingStatuses = []ReadingStatus{
	ReadingStatusWant,
	ReadingStatusReading,
	ReadingStatusCompleted,
	ReadingStatusDropped,
}

const (
	MinUserRating = 0.0
	MaxUserRating = 5.0
)

// ParseReadingStatus upper-cases s and matches it against the known statuses.
func ParseReadingStatus(s string) (ReadingStatus, bool) {
	candidate := ReadingStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range ReadingStatuses {
		if candidate == status {
			return status, true
		}
	}
	return "", false
}

// StatusKey is the lower-case key used for the status in stats responses.
func (s ReadingStatus) StatusKey() string {
	return strings.ToLower(string(s))
}

type ReadingListEntry struct {
	UserID        uint          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID        uint          `gorm:"primaryKey;autoIncrement:false;index" json:"book_id"`
	Status        ReadingStatus `gorm:"size:15;not null;check:chk_reading_list_status,status IN ('WANT','READING','COMPLETED','DROPPED')" json:"status"`
	ProgressPages *int          `gorm:"check:chk_reading_list_progress,progress_pages >= 0" json:"progress_pages"`
	UserRating    *float64      `gorm:"check:chk_reading_list_rating,user_rating >= 0 AND user_rating <= 5" json:"user_rating"`
	Note          *string       `gorm:"type:text" json:"note"`
	AddedAt       time.Time     `gorm:"autoCreateTime" json:"added_at"`
	User          User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book          Book          `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book"`
}

func (ReadingListEntry) TableName() string {
	return "reading_list_entries"
}

// ReadingStats summarises one user's reading list.
type ReadingStats struct {
	TotalBooks    int64            `json:"total_books"`
	AverageRating *float64         `json:"average_rating"`
	StatusCounts  map[string]int64 `json:"status_counts"`
}
