package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"hearthshare-backend/internal/config"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &emailService{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.User,
		password: cfg.Password,
		from:     cfg.From,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendHouseholdInvitation(ctx context.Context, email, name, inviteCode, householdName string) error {
	subject := fmt.Sprintf("Invitation to join %s", householdName)
	body := fmt.Sprintf("Hello %s,\n\nYou have been invited to join the household %s.\n\nUse this invite code in the app to join:\n\n%s\n\nBest regards,\nThe HearthShare Team", name, householdName, inviteCode)
	return s.send(email, subject, body)
}

func (s *emailService) SendMonthlyHeroNotification(ctx context.Context, email, name, householdName string, monthlyKarma int32) error {
	subject := fmt.Sprintf("You are this month's hero in %s!", householdName)
	body := fmt.Sprintf("Hello %s,\n\nCongratulations! You topped the %s leaderboard this month with %d karma.\n\nKeep it up!\n\nBest regards,\nThe HearthShare Team", name, householdName, monthlyKarma)
	return s.send(email, subject, body)
}

func (s *emailService) SendSwapCompletionReceipt(ctx context.Context, email, name string, amountCents int64, pointsEarned int32) error {
	body := fmt.Sprintf("Hello %s,\n\nYour swap for $%.2f has been completed. You earned %d points.\n\nBest regards,\nThe HearthShare Team", name, float64(amountCents)/100, pointsEarned)
	return s.send(email, "Swap Completed", body)
}
