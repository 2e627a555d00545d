package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"storefront_back_end/internal/models"
)

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// Mailer envoie via SMTP; chaque envoi ouvre sa propre connexion
type Mailer struct {
	cfg  SMTPConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

var _ Notifier = (*Mailer)(nil)

func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{
		cfg: cfg,
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

func (m *Mailer) newMsg(to, subject string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	return msg, nil
}

func (m *Mailer) contactMsg(c models.Contact) (*mail.Msg, error) {
	msg, err := m.newMsg(m.cfg.AdminEmail, "New contact message: "+c.Subject)
	if err != nil {
		return nil, err
	}
	if err := msg.ReplyTo(c.Email); err != nil {
		return nil, err
	}
	data := struct {
		Title   string
		Contact models.Contact
	}{"New contact message", c}
	if err := msg.SetBodyHTMLTemplate(contactTpl, data); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Mailer) orderMsg(o models.Order, title, intro string) (*mail.Msg, error) {
	msg, err := m.newMsg(o.UserEmail, title+" ("+o.OrderID+")")
	if err != nil {
		return nil, err
	}
	if err := msg.SetBodyHTMLTemplate(orderTpl, orderView{Title: title, Intro: intro, Order: o}); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Mailer) ContactReceived(ctx context.Context, c models.Contact) error {
	if m.cfg.AdminEmail == "" {
		return nil
	}
	msg, err := m.contactMsg(c)
	if err != nil {
		return err
	}
	zap.L().Info("📤 Envoi notification contact", zap.String("to", m.cfg.AdminEmail))
	return m.send(ctx, msg)
}

func (m *Mailer) OrderPlaced(ctx context.Context, o models.Order) error {
	msg, err := m.orderMsg(o, "Thank you for your order", "We received your order and will start working on it shortly.")
	if err != nil {
		return err
	}
	zap.L().Info("📤 Envoi confirmation commande", zap.String("order", o.OrderID), zap.String("to", o.UserEmail))
	return m.send(ctx, msg)
}

func (m *Mailer) OrderStatusChanged(ctx context.Context, o models.Order) error {
	msg, err := m.orderMsg(o, statusSubject(o.Status), fmt.Sprintf("Your order is now %s.", o.Status))
	if err != nil {
		return err
	}
	zap.L().Info("📧 Email de statut", zap.String("order", o.OrderID), zap.String("status", string(o.Status)))
	return m.send(ctx, msg)
}
