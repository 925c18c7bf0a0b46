package service

import (
	"bitwise74/files-manager/internal/model"
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// MailNotifier sends the welcome message over SMTP
type MailNotifier struct {
	cfg    MailConfig
	dialer *gomail.Dialer
}

func NewMailNotifier(cfg MailConfig) *MailNotifier {
	return &MailNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password),
	}
}

func (n *MailNotifier) Welcome(_ context.Context, u *model.User) error {
	if u.Email == n.cfg.Sender {
		return errors.New("invalid email address")
	}

	if err := n.dialer.DialAndSend(welcomeMessage(n.cfg.Sender, u)); err != nil {
		return fmt.Errorf("failed to send welcome mail, %w", err)
	}

	return nil
}

func welcomeMessage(from string, u *model.User) *gomail.Message {
	m := gomail.NewMessage()

	m.SetHeader("From", from)
	m.SetHeader("To", u.Email)
	m.SetHeader("Subject", "Welcome to files manager")
	m.SetBody("text/plain", fmt.Sprintf("Welcome %s!\n\nYour account is ready. Log in to start uploading files.", u.Email))

	return m
}
