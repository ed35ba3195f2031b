package Models

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
	Subject string
	Body    string
	IsHTML  bool
}

// EmailConfigFromSettings builds a sender config from the stored SMTP
// settings. Returns false when SMTP has not been configured.
func EmailConfigFromSettings(smtp *SMTPSettings) (EmailConfig, bool) {
	if smtp == nil || smtp.Server == "" {
		return EmailConfig{}, false
	}
	return EmailConfig{
		SMTPServer: smtp.Server,
		SMTPPort:   smtp.Port,
		Username:   smtp.Username,
		Password:   smtp.Password,
		FromEmail:  smtp.FromEmail,
		FromName:   smtp.FromName,
		TLSEnabled: smtp.UseTLS,
	}, true
}
