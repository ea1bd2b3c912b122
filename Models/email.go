package Models

import "Fixit/Constants"

// EmailConfig holds the SMTP settings used for outbound alert mail.
type EmailConfig struct {
	SMTPServer   string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TLSEnabled   bool
	SkipTLSCheck bool
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
	IsHTML  bool
}

// EmailConfigFromEnv builds the alert-mail configuration from the loaded
// runtime constants.
func EmailConfigFromEnv() EmailConfig {
	return EmailConfig{
		SMTPServer: Constants.SMTPServer,
		SMTPPort:   Constants.SMTPPort,
		Username:   Constants.SMTPUsername,
		Password:   Constants.SMTPPassword,
		FromEmail:  Constants.SMTPFromEmail,
		FromName:   Constants.SMTPFromName,
		TLSEnabled: Constants.SMTPTLS,
	}
}

// Configured reports whether enough SMTP settings are present to attempt
// delivery at all.
func (c EmailConfig) Configured() bool {
	return c.SMTPServer != "" && c.FromEmail != ""
}
