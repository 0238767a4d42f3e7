package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config настройки отправки уведомлений
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridNotifier отправляет email уведомления о событиях бронирования через SendGrid
// Вызывается после фиксации заявки, best-effort: сбой доставки не откатывает бронирование
type SendGridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridNotifier создает новый экземпляр SendGrid-нотификатора
// Возвращает nil при пустом API ключе - вызывающая сторона подставляет no-op
func NewSendGridNotifier(cfg Config, log Logger) *SendGridNotifier {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.FromName == "" {
		cfg.FromName = "Dental Clinic Portal"
	}
	return &SendGridNotifier{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

// NotifyBookingSubmitted отправляет пациенту подтверждение приёма заявки
func (n *SendGridNotifier) NotifyBookingSubmitted(ctx context.Context, appt *domain.Appointment, prefs []*domain.AppointmentPreference) error {
	subject := fmt.Sprintf("Заявка №%d принята - %s", appt.ID, appt.TreatmentName)

	var b strings.Builder
	fmt.Fprintf(&b, "Здравствуйте, %s!\n\n", appt.PatientName)
	fmt.Fprintf(&b, "Ваша заявка на %q принята и ожидает подтверждения администратором.\n\n", appt.TreatmentName)
	b.WriteString("Выбранные варианты времени:\n")
	for _, p := range prefs {
		fmt.Fprintf(&b, "  %d. %s, %s\n", p.Rank, p.PreferredDate.Format(domain.DateFormat), p.Slot)
	}
	b.WriteString("\nМы сообщим вам, когда администратор подтвердит один из вариантов.\n")

	return n.send(ctx, appt.PatientEmail, appt.PatientName, subject, b.String())
}

// NotifyBookingConfirmed отправляет пациенту подтверждение записи
func (n *SendGridNotifier) NotifyBookingConfirmed(ctx context.Context, appt *domain.Appointment) error {
	if appt.ConfirmedDate == nil || appt.ConfirmedSlot == nil {
		return fmt.Errorf("%w: appointment id=%d has no confirmed slot", ErrDeliveryFailed, appt.ID)
	}

	subject := fmt.Sprintf("Запись подтверждена - %s", appt.TreatmentName)
	body := fmt.Sprintf(
		"Здравствуйте, %s!\n\nВаша запись на %q подтверждена: %s, %s.\n\nЖдём вас в клинике.\n",
		appt.PatientName,
		appt.TreatmentName,
		appt.ConfirmedDate.Format(domain.DateFormat),
		appt.ConfirmedSlot,
	)

	return n.send(ctx, appt.PatientEmail, appt.PatientName, subject, body)
}

func (n *SendGridNotifier) send(ctx context.Context, toEmail, toName, subject, body string) error {
	if n == nil || n.client == nil {
		return ErrNotConfigured
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		n.log.Error("notifier: sendgrid send failed: to=%s, error=%v", toEmail, err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if response.StatusCode >= 400 {
		n.log.Error("notifier: sendgrid rejected message: to=%s, status=%d, body=%s",
			toEmail, response.StatusCode, response.Body)
		return fmt.Errorf("%w: sendgrid status %d", ErrDeliveryFailed, response.StatusCode)
	}

	n.log.Info("notifier: notification sent to=%s, subject=%q", toEmail, subject)
	return nil
}

// NoopNotifier заглушка на случай, когда уведомления не настроены
type NoopNotifier struct {
	log Logger
}

// NewNoopNotifier создает no-op нотификатор
func NewNoopNotifier(log Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

// NotifyBookingSubmitted логирует событие вместо отправки
func (n *NoopNotifier) NotifyBookingSubmitted(_ context.Context, appt *domain.Appointment, _ []*domain.AppointmentPreference) error {
	n.log.Info("notifier: notifications disabled, skipping submission notice for appointment id=%d", appt.ID)
	return nil
}

// NotifyBookingConfirmed логирует событие вместо отправки
func (n *NoopNotifier) NotifyBookingConfirmed(_ context.Context, appt *domain.Appointment) error {
	n.log.Info("notifier: notifications disabled, skipping confirmation notice for appointment id=%d", appt.ID)
	return nil
}
