package Notifications

import (
	"Fixit/Constants"
	"Fixit/Models"
	"Fixit/Whatsapp"
	"Fixit/email"
)

// WhatsAppChannel delivers alerts through the WhatsApp gateway.
type WhatsAppChannel struct {
	Recipient string
}

func (c WhatsAppChannel) Name() string { return "WhatsApp" }

func (c WhatsAppChannel) Send(message string) error {
	return Whatsapp.SendMessage(c.Recipient, message)
}

// EmailChannel delivers alerts to the operator's mailbox over SMTP.
type EmailChannel struct {
	Config Models.EmailConfig
	To     string
}

func (c EmailChannel) Name() string { return "Email" }

func (c EmailChannel) Send(message string) error {
	return email.SendEmail(c.Config, Models.EmailMessage{
		To:      []string{c.To},
		Subject: "New Repair Request",
		Body:    message,
	})
}

// DispatcherFromEnv wires up whichever channels the environment configures.
// Both are optional; with neither set the dispatcher is a no-op.
func DispatcherFromEnv() *Dispatcher {
	var channels []Channel

	if Constants.WhatsappGoService != "" && Constants.WhatsappRecipient != "" {
		channels = append(channels, WhatsAppChannel{Recipient: Constants.WhatsappRecipient})
	}

	emailConfig := Models.EmailConfigFromEnv()
	if emailConfig.Configured() && Constants.AlertEmail != "" {
		channels = append(channels, EmailChannel{Config: emailConfig, To: Constants.AlertEmail})
	}

	return NewDispatcher(channels...)
}
