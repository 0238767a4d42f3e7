package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	appointmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/DCP-BookingEngine/internal/service/appointments/models"
)

// Service сервис для работы с заявками на запись
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Пациент видит только свои записи, администратор клиники - любые
func (s *Service) GetByID(ctx context.Context, id int64, requester models.Requester) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for requester=%s", id, requester.Email)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	// Проверяем права доступа
	if !requester.IsAdmin && appt.PatientEmail != requester.Email {
		s.logger.Warn("GetByID: access denied for requester=%s to appointment id=%d", requester.Email, id)
		return nil, ErrAccessDenied
	}

	prefs, err := s.appointmentRepo.GetPreferences(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get preferences for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt, prefs), nil
}

// GetPatientAppointments получает историю записей пациента
// Опционально фильтрует по процедуре и статусу
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%s, status=%v",
		req.PatientEmail, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPatientAppointments: invalid filter for patient=%s: %v", req.PatientEmail, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetByPatientWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%s: %v", req.PatientEmail, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %w", ErrInternal, err)
	}

	resp := &models.AppointmentListResponse{
		Appointments: make([]models.AppointmentResponse, 0, len(appts)),
		Total:        len(appts),
	}

	for _, appt := range appts {
		prefs, err := s.appointmentRepo.GetPreferences(ctx, appt.ID)
		if err != nil {
			s.logger.Error("GetPatientAppointments: failed to get preferences for appointment id=%d: %v", appt.ID, err)
			return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %w", ErrInternal, err)
		}
		resp.Appointments = append(resp.Appointments, *models.FromDomainAppointment(appt, prefs))
	}

	s.logger.Info("GetPatientAppointments: successfully fetched %d appointments for patient=%s",
		len(appts), req.PatientEmail)
	return resp, nil
}

// Cancel отменяет запись и возвращает её обновлённое состояние
// Пациент может отменить только свою pending-запись (cancelled_by=patient),
// администратор клиники - pending или confirmed запись (cancelled_by=clinic)
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by %s (%s)", appointmentID, req.Actor, req.RequesterEmail)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}

	// Пациент может отменять только собственные записи
	if req.Actor == domain.CancelActorPatient && appt.PatientEmail != req.RequesterEmail {
		s.logger.Warn("Cancel: access denied for patient=%s to appointment id=%d", req.RequesterEmail, appointmentID)
		return nil, ErrAccessDenied
	}

	// Проверяем, может ли данный актор отменить запись в текущем статусе
	if !appt.CanBeCancelledBy(req.Actor) {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled by %s, status=%s",
			appointmentID, req.Actor, appt.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, appt.Status)
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.Actor, req.Reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}

	// Перечитываем запись: cancelled_at и атрибуцию отмены проставляет БД
	cancelled, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		s.logger.Error("Cancel: failed to reread appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}
	prefs, err := s.appointmentRepo.GetPreferences(ctx, appointmentID)
	if err != nil {
		s.logger.Error("Cancel: failed to get preferences for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d by %s", appointmentID, req.Actor)
	return models.FromDomainAppointment(cancelled, prefs), nil
}
