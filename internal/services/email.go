package services

import (
	"fmt"
	"html"

	"github.com/princeprakhar/reviewhub-backend/internal/config"
	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// FlagNotifier is told when a review goes from unflagged to flagged.
type FlagNotifier interface {
	NotifyReviewFlagged(author models.User, review models.Review)
}

// mailSender abstracts the SMTP dialer so delivery can be swapped in tests.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config *config.Config
	sender mailSender
}

func NewEmailService(config *config.Config) *EmailService {
	d := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	return &EmailService{config: config, sender: d}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.sender.DialAndSend(m)
}

// NotifyReviewFlagged emails the author in the background. Delivery failures
// are logged and never reach the moderation request.
func (s *EmailService) NotifyReviewFlagged(author models.User, review models.Review) {
	if author.Email == "" {
		return
	}
	subject := "Your review has been flagged for moderation"
	body := fmt.Sprintf(`
		<h2>Review flagged</h2>
		<p>Hello %s,</p>
		<p>Your review posted on %s has been flagged by a moderator:</p>
		<blockquote>%s</blockquote>
		<p>It stays visible while it is being looked at. You can delete it at any time.</p>
	`, html.EscapeString(author.Name), review.CreatedAt.Format("2006-01-02"), html.EscapeString(review.Comment))

	go func() {
		if err := s.SendEmail(author.Email, subject, body); err != nil {
			logger.WithFields(logrus.Fields{
				"review_id": review.ID,
				"user_id":   author.ID,
			}).WithError(err).Error("Failed to send review flagged email")
		}
	}()
}
