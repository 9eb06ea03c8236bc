package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/club-system/importer"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

// Notifier delivers a message to a set of LINE Notify tokens.
type Notifier interface {
	SendToAll(ctx context.Context, tokens []string, message string)
}

const (
	importedCapacityPerCourt = 10
	importedCourtFee         = 3600
	importedPracticeNote     = "テキストファイルからインポート"
)

// PracticeService управляет расписанием тренировок: создание, импорт из
// текстовой выгрузки системы бронирования и уведомления участникам.
type PracticeService struct {
	practices    repositories.PracticeRepository
	reservations repositories.ReservationRepository
	users        repositories.UserRepository
	notifier     Notifier // nil when LINE notifications are disabled
	logger       *slog.Logger
}

func NewPracticeService(
	practices repositories.PracticeRepository,
	reservations repositories.ReservationRepository,
	users repositories.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *PracticeService {
	return &PracticeService{
		practices:    practices,
		reservations: reservations,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreatePracticeInput is the practice creation payload.
type CreatePracticeInput struct {
	Date             time.Time
	StartTime        string
	EndTime          *string
	Location         string
	Courts           int
	CapacityPerCourt *int
	DeadlineDatetime time.Time
	CourtFeePerCourt *int
	Notes            *string
}

// PracticeImportError records one skipped or failed entry of a text import.
type PracticeImportError struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// PracticeImportResult carries the parallel success/failure lists of one
// bulk text import.
type PracticeImportResult struct {
	Created []*models.Practice    `json:"created"`
	Errors  []PracticeImportError `json:"errors"`
}

// Create adds a practice and notifies members asynchronously.
func (s *PracticeService) Create(ctx context.Context, input CreatePracticeInput, createdBy int) (*models.Practice, error) {
	if input.StartTime == "" || input.Location == "" || input.Courts <= 0 {
		return nil, ErrValidationFailed
	}

	practice := &models.Practice{
		Date:             input.Date,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		Location:         input.Location,
		Courts:           input.Courts,
		CapacityPerCourt: 8,
		DeadlineDatetime: input.DeadlineDatetime,
		Status:           models.PracticeOpen,
		Notes:            input.Notes,
		CreatedBy:        createdBy,
	}
	if input.CapacityPerCourt != nil {
		practice.CapacityPerCourt = *input.CapacityPerCourt
	}
	if input.CourtFeePerCourt != nil {
		practice.CourtFeePerCourt = *input.CourtFeePerCourt
	}
	if practice.CapacityPerCourt <= 0 {
		return nil, ErrValidationFailed
	}

	if err := s.practices.Create(ctx, practice); err != nil {
		return nil, err
	}

	s.notifyNewPractice(practice)
	return practice, nil
}

// List returns practices matching the filter, by date descending.
func (s *PracticeService) List(ctx context.Context, filter models.PracticeFilter) ([]*models.Practice, error) {
	return s.practices.List(ctx, filter)
}

// Get returns one practice with its imported reservation accounts attached.
func (s *PracticeService) Get(ctx context.Context, id int) (*models.Practice, error) {
	practice, err := s.practices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return nil, ErrPracticeNotFound
		}
		return nil, err
	}

	accounts, err := s.reservations.ListByPractice(ctx, id)
	if err != nil {
		return nil, err
	}
	practice.ReservationAccounts = accounts
	return practice, nil
}

// Update applies a partial modification.
func (s *PracticeService) Update(ctx context.Context, id int, upd repositories.PracticeUpdate) (*models.Practice, error) {
	practice, err := s.practices.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return nil, ErrPracticeNotFound
		}
		return nil, err
	}
	return practice, nil
}

// Delete removes a practice together with its dependent rows.
func (s *PracticeService) Delete(ctx context.Context, id int) error {
	if err := s.practices.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return ErrPracticeNotFound
		}
		return err
	}
	return nil
}

// ImportText creates practices from the booking system's reservation summary.
// Entries colliding with an existing practice on date and start time are
// skipped; the rest still proceed. Reservation account names are matched to
// registered members by their booking-system number.
func (s *PracticeService) ImportText(ctx context.Context, text string, createdBy int) (*PracticeImportResult, error) {
	records, err := importer.ParsePracticesText(text)
	if err != nil {
		return nil, err
	}

	result := &PracticeImportResult{
		Created: make([]*models.Practice, 0, len(records)),
		Errors:  make([]PracticeImportError, 0),
	}

	for _, rec := range records {
		dateStr := rec.Date.Format("2006-01-02")

		exists, err := s.practices.ExistsByDateAndStartTime(ctx, rec.Date, rec.StartTime)
		if err != nil {
			result.Errors = append(result.Errors, PracticeImportError{Date: dateStr, Error: err.Error()})
			continue
		}
		if exists {
			result.Errors = append(result.Errors, PracticeImportError{Date: dateStr, Error: "practice already exists, skipped"})
			continue
		}

		endTime := rec.EndTime
		notes := importedPracticeNote
		practice := &models.Practice{
			Date:             rec.Date,
			StartTime:        rec.StartTime,
			EndTime:          &endTime,
			Location:         "",
			Courts:           rec.Courts,
			CapacityPerCourt: importedCapacityPerCourt,
			DeadlineDatetime: rec.Deadline,
			CourtFeePerCourt: importedCourtFee,
			Status:           models.PracticeOpen,
			Notes:            &notes,
			CreatedBy:        createdBy,
		}
		if err := s.practices.Create(ctx, practice); err != nil {
			result.Errors = append(result.Errors, PracticeImportError{Date: dateStr, Error: err.Error()})
			continue
		}

		accounts := make([]models.ReservationAccount, 0, len(rec.Accounts))
		for _, acc := range rec.Accounts {
			account := models.ReservationAccount{
				PracticeID: practice.ID,
				UserName:   acc.UserName,
				UserNumber: acc.UserNumber,
			}
			studentID, err := s.users.StudentIDByRegistrationNumber(ctx, acc.UserNumber)
			if err != nil {
				s.logger.Warn("failed to match reservation account",
					slog.String("user_number", acc.UserNumber), slog.Any("error", err))
			} else {
				account.StudentID = studentID
			}
			accounts = append(accounts, account)
		}
		if len(accounts) > 0 {
			if err := s.reservations.CreateBatch(ctx, practice.ID, accounts); err != nil {
				result.Errors = append(result.Errors, PracticeImportError{Date: dateStr, Error: err.Error()})
			}
		}
		practice.ReservationAccounts = accounts
		result.Created = append(result.Created, practice)
	}
	return result, nil
}

// notifyNewPractice fans the announcement out in the background so that
// practice creation never waits on LINE.
func (s *PracticeService) notifyNewPractice(practice *models.Practice) {
	if s.notifier == nil {
		return
	}

	message := "新しい練習が追加されました: " + practice.Date.Format("2006-01-02") +
		" " + practice.StartTime + " @ " + practice.Location

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		tokens, err := s.users.ListLineNotifyTokens(ctx)
		if err != nil {
			s.logger.Warn("failed to load notify tokens", slog.Any("error", err))
			return
		}
		if len(tokens) == 0 {
			return
		}
		s.notifier.SendToAll(ctx, tokens, message)
	}()
}
