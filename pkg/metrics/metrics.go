package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Authorization metrics
	AuthorizeSuccess prometheus.Counter
	AuthorizeFailure prometheus.Counter

	// Credential lifecycle metrics
	CredentialReplacements prometheus.Counter
	CredentialRevocations  prometheus.Counter

	// Reset flow metrics
	ResetTokensIssued   prometheus.Counter
	TempPasswordsIssued prometheus.Counter

	// Mail queue metrics
	MailEnqueued prometheus.Counter
	MailSent     prometheus.Counter
	MailFailed   prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		AuthorizeSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "authorize_success_total",
			Help:      "Total number of successful secondary authorizations",
		}),
		AuthorizeFailure: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "authorize_failure_total",
			Help:      "Total number of failed secondary authorizations",
		}),
		CredentialReplacements: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "credential_replacements_total",
			Help:      "Total number of secondary credentials set or replaced",
		}),
		CredentialRevocations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "credential_revocations_total",
			Help:      "Total number of secondary credential revocations",
		}),
		ResetTokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reset_tokens_issued_total",
			Help:      "Total number of security reset tokens issued",
		}),
		TempPasswordsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "temp_passwords_issued_total",
			Help:      "Total number of randomized temporary credentials issued",
		}),
		MailEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mail_enqueued_total",
			Help:      "Total number of notification emails enqueued",
		}),
		MailSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mail_sent_total",
			Help:      "Total number of notification emails delivered",
		}),
		MailFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mail_failed_total",
			Help:      "Total number of notification email delivery failures",
		}),
	}
}
