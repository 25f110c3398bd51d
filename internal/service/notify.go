package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aerobickyjov/clubcms/internal/mailer"
)

// ContactInput - данные формы обратной связи с публичного сайта.
type ContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Description string
}

// NotifyService отправляет письма с публичных форм сайта.
// Тексты писем на чешском - языке аудитории клуба.
type NotifyService struct {
	mail    mailer.Sender
	adminTo string
	logger  *slog.Logger
}

// NewNotifyService создаёт сервис уведомлений.
// adminTo - адрес администрации клуба, получатель всех форм.
func NewNotifyService(mail mailer.Sender, adminTo string, logger *slog.Logger) *NotifyService {
	return &NotifyService{
		mail:    mail,
		adminTo: adminTo,
		logger:  logger.With(slog.String("component", "notify-service")),
	}
}

// Contact обрабатывает форму обратной связи: письмо уходит администрации,
// копия - отправителю, если он оставил адрес.
func (s *NotifyService) Contact(in ContactInput) error {
	if in.FirstName == "" || in.Description == "" {
		return fmt.Errorf("%w: jméno a popis jsou povinné položky", ErrValidation)
	}

	fullName := in.FirstName
	if in.LastName != "" {
		fullName += " " + in.LastName
	}

	var b strings.Builder
	b.WriteString("Nová kontaktní zpráva\n\n")
	b.WriteString("Informace o odesílateli:\n")
	fmt.Fprintf(&b, "Jméno: %s\n", fullName)
	if in.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", in.Email)
	}
	if in.Phone != "" {
		fmt.Fprintf(&b, "Telefon: %s\n", in.Phone)
	}
	b.WriteString("\nZpráva:\n")
	b.WriteString(in.Description)
	b.WriteString("\n\n---\nTato zpráva byla odeslána z kontaktního formuláře na webu Aerobic Cup Kyjov.\n")
	fmt.Fprintf(&b, "Čas odeslání: %s\n", time.Now().Format("02.01.2006 15:04"))

	msg := mailer.Message{
		To:      s.adminTo,
		Cc:      in.Email,
		Subject: "Nová kontaktní zpráva od " + fullName,
		Text:    b.String(),
	}
	if err := s.mail.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	s.logger.Info("контактная форма отправлена", slog.String("from", fullName))
	return nil
}

// Newsletter подписывает адрес на рассылку: уведомление администрации
// плюс подтверждение подписчику.
func (s *NotifyService) Newsletter(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: prosím zadejte platnou emailovou adresu", ErrValidation)
	}

	now := time.Now().Format("02.01.2006 15:04")

	adminMsg := mailer.Message{
		To:      s.adminTo,
		Subject: "Nový odběratel newsletteru",
		Text: "Nový odběratel newsletteru\n\n" +
			"Email: " + email + "\n" +
			"Čas přihlášení: " + now + "\n\n" +
			"---\nTento email byl odeslán z formuláře newsletteru na webu Aerobic Cup Kyjov.\n",
	}
	if err := s.mail.Send(adminMsg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	confirmMsg := mailer.Message{
		To:      email,
		Subject: "Potvrzení přihlášení k newsletteru - Aerobic Cup Kyjov",
		Text: "Děkujeme za přihlášení k newsletteru!\n\n" +
			"Vážený odběrateli,\n" +
			"děkujeme za přihlášení k našemu newsletteru. Budeme vás informovat o novinkách, " +
			"událostech, speciálních nabídkách a tipů pro cvičení.\n\n" +
			"Pokud se chcete odhlásit z newsletteru, můžete tak učinit kdykoliv kliknutím " +
			"na odkaz v patičce našich emailů.\n\n" +
			"---\nAerobic Cup Kyjov\n" +
			"Sportcentrum Želva, Hodonínská 1680, Dubňany 696 03\n",
	}
	if err := s.mail.Send(confirmMsg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	s.logger.Info("подписка на рассылку оформлена", slog.String("email", email))
	return nil
}
