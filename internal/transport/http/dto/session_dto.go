package dto

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04:05", "15:04"}

type CreateSessionRequest struct {
	Date      string  `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

type UpdateSessionRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

type SetRecordRequest struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type CreateRecordRequest struct {
	Exercise   string             `json:"exercise"`
	SetRecords []SetRecordRequest `json:"setRecords"`
}

type CreateResponse struct {
	ID int64 `json:"id"`
}

type SetRecordResponse struct {
	ID     int64   `json:"id"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type RecordResponse struct {
	ID         int64               `json:"id"`
	Exercise   string              `json:"exercise"`
	SetRecords []SetRecordResponse `json:"setRecords"`
}

type SessionResponse struct {
	ID        int64            `json:"id"`
	Date      string           `json:"date"`
	StartTime *string          `json:"startTime"`
	EndTime   *string          `json:"endTime"`
	Records   []RecordResponse `json:"records"`
}

type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Page     int               `json:"page"`
}

type SessionDatesResponse struct {
	Dates []string `json:"dates"`
}

func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return date, nil
}

// ValidateClock accepts HH:MM and HH:MM:SS. A nil value is fine: the
// field was simply omitted.
func ValidateClock(value *string) error {
	if value == nil {
		return nil
	}
	for _, layout := range clockLayouts {
		if _, err := time.Parse(layout, *value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", *value)
}
