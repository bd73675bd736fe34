package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log"
	"net/url"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the part of the SES client used to deliver mail
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends family invitations via Amazon SES
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
	}, nil
}

// IsEnabled reports whether invitations are actually delivered
func (s *EmailService) IsEnabled() bool {
	return s.client != nil
}

// inviteMessage is the data rendered into an invitation
type inviteMessage struct {
	InviterName string
	FamilyName  string
	InviteCode  string
	JoinURL     string
}

var inviteHTML = htmltemplate.Must(htmltemplate.New("invite").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>Hi,</p>
		<p>{{.InviterName}} invited you to join <strong>{{.FamilyName}}</strong> and share your family's diary.</p>
		<p>Use this invite code when you sign up:</p>
		<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold; text-align: center; padding: 16px; background: #fff3e6;">{{.InviteCode}}</p>
		<p style="text-align: center;"><a href="{{.JoinURL}}" style="padding: 12px 30px; background-color: #f29b4b; color: white; text-decoration: none;">Join the family</a></p>
		<p style="text-align: center; font-size: 12px; color: #666;">This is an automated email from Baby Diary. Please do not reply.</p>
	</div>
</body>
</html>
`))

var inviteText = texttemplate.Must(texttemplate.New("invite").Parse(`Hi,

{{.InviterName}} invited you to join {{.FamilyName}} and share your family's diary.

Invite code: {{.InviteCode}}

Sign up here: {{.JoinURL}}

---
This is an automated email from Baby Diary. Please do not reply.
`))

// renderInvite returns the subject, HTML and text bodies of an invitation
func (s *EmailService) renderInvite(inviterName, familyName, inviteCode string) (string, string, string, error) {
	msg := inviteMessage{
		InviterName: inviterName,
		FamilyName:  familyName,
		InviteCode:  inviteCode,
		JoinURL:     s.appBaseURL + "/register?inviteCode=" + url.QueryEscape(inviteCode),
	}

	var htmlBody, textBody bytes.Buffer
	if err := inviteHTML.Execute(&htmlBody, msg); err != nil {
		return "", "", "", fmt.Errorf("failed to render invite: %w", err)
	}
	if err := inviteText.Execute(&textBody, msg); err != nil {
		return "", "", "", fmt.Errorf("failed to render invite: %w", err)
	}

	subject := fmt.Sprintf("%s invited you to %s on Baby Diary", inviterName, familyName)
	return subject, htmlBody.String(), textBody.String(), nil
}

// SendFamilyInviteEmail sends the family's invite code with a link to the sign-up page
func (s *EmailService) SendFamilyInviteEmail(ctx context.Context, toEmail, inviterName, familyName, inviteCode string) error {
	if !s.IsEnabled() {
		log.Printf("Skipping email send (service disabled): family invite to %s", toEmail)
		return nil
	}

	subject, htmlBody, textBody, err := s.renderInvite(inviterName, familyName, inviteCode)
	if err != nil {
		return err
	}
	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination:      &types.Destination{ToAddresses: []string{toEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8Content(subject),
				Body: &types.Body{
					Html: utf8Content(htmlBody),
					Text: utf8Content(textBody),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
