package model

// Email is a rendered customer-facing message.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
