package workout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/jagaldol/my-fitness-server/internal/repo/postgres"
)

const pageSize = 20

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type UnitOfWork interface {
	Run(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type UserStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type SessionStore interface {
	Insert(ctx context.Context, tx pgx.Tx, userID int64, date time.Time, startTime, endTime *string) (int64, error)
	Find(ctx context.Context, sessionID int64) (pgrepo.SessionRecord, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int, date *time.Time) ([]pgrepo.SessionRecord, error)
	DistinctDates(ctx context.Context, userID int64, from, to time.Time) ([]time.Time, error)
	Update(ctx context.Context, tx pgx.Tx, sessionID int64, patch pgrepo.SessionPatch) error
	Delete(ctx context.Context, tx pgx.Tx, sessionID int64) error
}

type RecordStore interface {
	Insert(ctx context.Context, tx pgx.Tx, sessionID int64, exercise string) (int64, error)
	ListBySession(ctx context.Context, sessionID int64) ([]pgrepo.RecordRecord, error)
	Delete(ctx context.Context, tx pgx.Tx, recordID int64) error
}

type SetRecordStore interface {
	Insert(ctx context.Context, tx pgx.Tx, recordID int64, weight float64, count int) (int64, error)
	ListByRecord(ctx context.Context, recordID int64) ([]pgrepo.SetRecordRecord, error)
	DeleteByRecord(ctx context.Context, tx pgx.Tx, recordID int64) error
}

// Service owns the session/record/set-record aggregate. Every
// mutation runs inside one unit of work; ownership is checked before
// any session is read or touched on behalf of a user.
type Service struct {
	uow        UnitOfWork
	users      UserStore
	sessions   SessionStore
	records    RecordStore
	setRecords SetRecordStore
	now        func() time.Time
}

type Dependencies struct {
	UnitOfWork UnitOfWork
	Users      UserStore
	Sessions   SessionStore
	Records    RecordStore
	SetRecords SetRecordStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		uow:        deps.UnitOfWork,
		users:      deps.Users,
		sessions:   deps.Sessions,
		records:    deps.Records,
		setRecords: deps.SetRecords,
		now:        time.Now,
	}
}

func (s *Service) CreateSession(ctx context.Context, userID int64, input CreateSessionInput) (int64, error) {
	if userID <= 0 || input.Date.IsZero() {
		return 0, ErrValidation
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("check session owner: %w", err)
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	var sessionID int64
	if err := s.uow.Run(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		id, err := s.sessions.Insert(txCtx, tx, userID, input.Date, input.StartTime, input.EndTime)
		if err != nil {
			return err
		}
		sessionID = id
		return nil
	}); err != nil {
		return 0, err
	}

	return sessionID, nil
}

func (s *Service) UpdateSession(ctx context.Context, sessionID, userID int64, patch SessionPatch) error {
	if sessionID <= 0 || userID <= 0 {
		return ErrValidation
	}

	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}

	// ownership and existence are checked even when nothing changes
	if patch.Date == nil && patch.StartTime == nil && patch.EndTime == nil {
		return nil
	}

	return s.uow.Run(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		err := s.sessions.Update(txCtx, tx, sessionID, pgrepo.SessionPatch{
			Date:      patch.Date,
			StartTime: patch.StartTime,
			EndTime:   patch.EndTime,
		})
		if errors.Is(err, pgrepo.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return err
	})
}

func (s *Service) GetSessions(ctx context.Context, userID int64, page int, date *time.Time) ([]SessionDetail, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if page < 1 {
		page = 1
	}

	sessions, err := s.sessions.ListByUser(ctx, userID, pageSize, (page-1)*pageSize, date)
	if err != nil {
		return nil, err
	}

	details := make([]SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		detail, err := s.assemble(ctx, session)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, nil
}

func (s *Service) GetSession(ctx context.Context, userID, sessionID int64) (SessionDetail, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return SessionDetail{}, err
	}
	return s.assemble(ctx, session)
}

// DeleteSession removes the whole aggregate leaves-first: set records,
// then records, then the session, all in one unit of work so readers
// never observe a partial cascade.
func (s *Service) DeleteSession(ctx context.Context, sessionID, userID int64) error {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}

	return s.uow.Run(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		// the delete set is read inside the tx so a record inserted
		// concurrently cannot be left orphaned
		records, err := s.records.ListBySession(txCtx, sessionID)
		if err != nil {
			return err
		}
		for _, record := range records {
			if err := s.setRecords.DeleteByRecord(txCtx, tx, record.ID); err != nil {
				return err
			}
			if err := s.records.Delete(txCtx, tx, record.ID); err != nil {
				return err
			}
		}
		return s.sessions.Delete(txCtx, tx, sessionID)
	})
}

// CreateRecord attaches an exercise record with its sets to a session.
// Only session existence is validated here, not ownership, matching
// the established API contract.
func (s *Service) CreateRecord(ctx context.Context, userID, sessionID int64, input CreateRecordInput) (int64, error) {
	if userID <= 0 || sessionID <= 0 || strings.TrimSpace(input.Exercise) == "" {
		return 0, ErrValidation
	}
	for _, set := range input.Sets {
		if set.Count <= 0 || set.Weight < 0 {
			return 0, ErrValidation
		}
	}

	if _, err := s.sessions.Find(ctx, sessionID); err != nil {
		if errors.Is(err, pgrepo.ErrSessionNotFound) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("find session: %w", err)
	}

	var recordID int64
	if err := s.uow.Run(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		id, err := s.records.Insert(txCtx, tx, sessionID, strings.TrimSpace(input.Exercise))
		if err != nil {
			return err
		}
		for _, set := range input.Sets {
			if _, err := s.setRecords.Insert(txCtx, tx, id, set.Weight, set.Count); err != nil {
				return err
			}
		}
		recordID = id
		return nil
	}); err != nil {
		return 0, err
	}

	return recordID, nil
}

// GetSessionDates returns the distinct dates with at least one session
// inside a three-month window: the anchor month plus its neighbors on
// both sides. A malformed month falls back to the current month.
func (s *Service) GetSessionDates(ctx context.Context, userID int64, month string) ([]time.Time, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}

	now := s.now().UTC()
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if monthPattern.MatchString(month) {
		parsed, err := time.Parse("2006-01", month)
		if err == nil {
			base = parsed
		}
	}

	from := base.AddDate(0, -1, 0)
	to := base.AddDate(0, 2, -1)

	return s.sessions.DistinctDates(ctx, userID, from, to)
}

// ownedSession is the guarded lookup shared by every ownership-scoped
// operation: load, then verify the owner, mapping each failure to its
// own error kind. Not-found wins over permission-denied.
func (s *Service) ownedSession(ctx context.Context, sessionID, userID int64) (pgrepo.SessionRecord, error) {
	if sessionID <= 0 || userID <= 0 {
		return pgrepo.SessionRecord{}, ErrValidation
	}

	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSessionNotFound) {
			return pgrepo.SessionRecord{}, ErrSessionNotFound
		}
		return pgrepo.SessionRecord{}, fmt.Errorf("find session: %w", err)
	}
	if session.UserID != userID {
		return pgrepo.SessionRecord{}, ErrPermissionDenied
	}

	return session, nil
}

func (s *Service) assemble(ctx context.Context, session pgrepo.SessionRecord) (SessionDetail, error) {
	records, err := s.records.ListBySession(ctx, session.ID)
	if err != nil {
		return SessionDetail{}, err
	}

	recordDetails := make([]RecordDetail, 0, len(records))
	for _, record := range records {
		sets, err := s.setRecords.ListByRecord(ctx, record.ID)
		if err != nil {
			return SessionDetail{}, err
		}

		setDetails := make([]SetDetail, 0, len(sets))
		for _, set := range sets {
			setDetails = append(setDetails, SetDetail{
				ID:     set.ID,
				Weight: set.Weight,
				Count:  set.Count,
			})
		}

		recordDetails = append(recordDetails, RecordDetail{
			ID:       record.ID,
			Exercise: record.Exercise,
			Sets:     setDetails,
		})
	}

	return SessionDetail{
		ID:        session.ID,
		Date:      session.Date,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Records:   recordDetails,
	}, nil
}
