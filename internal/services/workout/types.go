package workout

import (
	"errors"
	"time"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type CreateSessionInput struct {
	Date      time.Time
	StartTime *string
	EndTime   *string
}

// SessionPatch applies only its non-nil fields.
type SessionPatch struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
}

type SetInput struct {
	Weight float64
	Count  int
}

type CreateRecordInput struct {
	Exercise string
	Sets     []SetInput
}

type SetDetail struct {
	ID     int64
	Weight float64
	Count  int
}

type RecordDetail struct {
	ID       int64
	Exercise string
	Sets     []SetDetail
}

// SessionDetail is a session with its records and their sets fully
// assembled; listings never return a session half-populated.
type SessionDetail struct {
	ID        int64
	Date      time.Time
	StartTime *string
	EndTime   *string
	Records   []RecordDetail
}
