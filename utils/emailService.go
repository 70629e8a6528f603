package utils

import (
	"errors"
	"fmt"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notification template ids
const (
	TemplateQuotationInvite   = "quotation_invite"
	TemplateQuotationReminder = "quotation_reminder"
)

var ErrNotifierUnavailable = errors.New("notifier unavailable")

// Notifier is the outbound notification contract. Implementations must treat
// every send as fallible and per-recipient.
type Notifier interface {
	Send(toEmail, toName, templateID string, variables map[string]string) error
}

// Mailer is the notifier used by the dispatcher and the deadline monitor.
// Tests swap it for a fake.
var Mailer Notifier = &SendGridNotifier{}

// SendGridNotifier sends templated mail through the SendGrid API
type SendGridNotifier struct{}

func (n *SendGridNotifier) Send(toEmail, toName, templateID string, variables map[string]string) error {
	subject, html, text, err := renderTemplate(templateID, variables)
	if err != nil {
		return err
	}

	from := mail.NewEmail(config.AppConfig.EmailFromName, config.AppConfig.EmailFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, text, html)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		logger.WithComponent("mailer").WithError(err).Errorf("Error sending %s to %s", templateID, toEmail)
		return ErrNotifierUnavailable
	}
	if response.StatusCode >= 400 {
		logger.WithComponent("mailer").Errorf("SendGrid returned %d for %s to %s", response.StatusCode, templateID, toEmail)
		return ErrNotifierUnavailable
	}

	logger.WithComponent("mailer").Infof("Sent %s to %s", templateID, toEmail)
	return nil
}

func renderTemplate(templateID string, vars map[string]string) (subject, html, text string, err error) {
	switch templateID {
	case TemplateQuotationInvite:
		subject = fmt.Sprintf("Solicitação de Cotação - %s - %s", vars["basket_name"], vars["management_unit"])
		body := fmt.Sprintf(`
			<p>Prezado(a) fornecedor <strong>%s</strong>,</p>
			<p>A <strong>%s</strong> está solicitando cotação de preços para a cesta <strong>%s</strong> (%s itens).</p>
			<div class="info-box">
				<strong>Prazo para resposta:</strong> %s
			</div>
			<p>Acesse o portal para enviar sua proposta:</p>
			<a href="%s" class="btn">ENVIAR COTAÇÃO</a>
			<p style="font-size: 12px; color: #6b7280;">Link válido até %s.</p>
		`, vars["supplier_name"], vars["management_unit"], vars["basket_name"], vars["item_count"],
			vars["due_date"], vars["portal_url"], vars["due_date"])
		html = wrapEmailTemplate("Solicitação de Cotação de Preços", body)
		text = fmt.Sprintf("Solicitação de Cotação - %s\n\nPrezado(a) %s,\n\nPrazo: %s\nAcesse: %s\n",
			vars["basket_name"], vars["supplier_name"], vars["due_date"], vars["portal_url"])

	case TemplateQuotationReminder:
		subject = fmt.Sprintf("LEMBRETE: Cotação com prazo próximo - %s", vars["basket_name"])
		body := fmt.Sprintf(`
			<p>Prezado(a) fornecedor <strong>%s</strong>,</p>
			<p>Sua cotação para a cesta <strong>%s</strong> ainda não foi enviada.</p>
			<div class="info-box">
				<strong>Prazo:</strong> %s (%s dia(s) restantes)
			</div>
			<p>Para não perder o prazo, acesse o portal:</p>
			<a href="%s" class="btn">ENVIAR COTAÇÃO AGORA</a>
		`, vars["supplier_name"], vars["basket_name"], vars["due_date"], vars["days_remaining"], vars["portal_url"])
		html = wrapEmailTemplate("Lembrete de Prazo de Cotação", body)
		text = fmt.Sprintf("LEMBRETE: prazo até %s (%s dia(s)).\nAcesse: %s\n",
			vars["due_date"], vars["days_remaining"], vars["portal_url"])

	default:
		err = fmt.Errorf("unknown notification template: %s", templateID)
	}
	return subject, html, text, err
}

// HTML wrapper shared by every notification
func wrapEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1d4ed8; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1f2937; line-height: 1.6; }
			.content h2 { color: #1d4ed8; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2563eb; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2563eb; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SISTEMA DE CESTAS DE PREÇOS PÚBLICAS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				Prefeitura Municipal de Santa Teresa - ES<br>
				Este é um e-mail automático, não responda.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
