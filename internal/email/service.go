package email

// Sender delivers a single rendered email.
type Sender interface {
	Send(to, subject, body string) error
}
