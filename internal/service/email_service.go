package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	log "github.com/sirupsen/logrus"

	"chorechart/internal/models"
	"chorechart/internal/utils"
)

// sesAPI is the part of the SES client the email service uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends parent notifications via Amazon SES
type EmailService struct {
	client      sesAPI
	fromEmail   string
	fromName    string
	parentEmail string
	enabled     bool
}

// NewEmailService creates a new email service. It is disabled unless both a
// sender and a parent address are configured.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, parentEmail string) (*EmailService, error) {
	if fromEmail == "" || parentEmail == "" {
		log.Info("Email service disabled: SES_FROM_EMAIL or PARENT_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}
	if err := utils.ValidateEmail(parentEmail); err != nil {
		return nil, fmt.Errorf("invalid PARENT_EMAIL: %w", err)
	}

	log.WithField("region", awsRegion).Debug("Loading AWS configuration")
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.WithFields(log.Fields{"from": fromEmail, "region": awsRegion}).Info("Email service enabled")
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, parentEmail), nil
}

func newEmailService(client sesAPI, fromEmail, fromName, parentEmail string) *EmailService {
	return &EmailService{
		client:      client,
		fromEmail:   fromEmail,
		fromName:    fromName,
		parentEmail: parentEmail,
		enabled:     true,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// NotifyStarsEarned emails the parent that a kid earned stars
func (s *EmailService) NotifyStarsEarned(ctx context.Context, kid models.KidWithStats, earned int, reason string) error {
	if !s.enabled {
		return nil
	}

	noun := "star"
	if earned != 1 {
		noun = "stars"
	}
	subject := fmt.Sprintf("%s earned %d %s!", kid.Name, earned, noun)

	textBody := fmt.Sprintf("%s earned %d %s (%s).\n\nTotal stars: %d\nBalloons: %d\nTrain laps: %d of a %d-star track\n",
		kid.Name, earned, noun, reason, kid.StarsCount, kid.Balloons, kid.TrainLapsCompleted, kid.TrainTrackLength)

	htmlBody := fmt.Sprintf(`<html><body>
<h2>%s earned %d %s!</h2>
<p>%s</p>
<ul>
<li>Total stars: %d</li>
<li>Balloons: %d</li>
<li>Train laps: %d of a %d-star track</li>
</ul>
</body></html>`,
		html.EscapeString(kid.Name), earned, noun, html.EscapeString(reason),
		kid.StarsCount, kid.Balloons, kid.TrainLapsCompleted, kid.TrainTrackLength)

	return s.sendEmail(ctx, s.parentEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	entry := log.WithFields(log.Fields{"to": toEmail, "subject": subject})
	if result.MessageId != nil {
		entry = entry.WithField("message_id", *result.MessageId)
	}
	entry.Info("Email sent successfully")
	return nil
}
