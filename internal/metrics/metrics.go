// Package metrics — prometheus-метрики бизнес-операций account-service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты логина (label "result").
const (
	LoginOK        = "ok"
	LoginFailed    = "failed"
	LoginWithdrawn = "withdrawn"
	LoginDormant   = "dormant"
	LoginError     = "error"
)

// Metrics — счётчики сервиса. Нулевой указатель допустим: методы no-op.
type Metrics struct {
	logins        *prometheus.CounterVec
	tokensIssued  *prometheus.CounterVec
	refreshErrors *prometheus.CounterVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "account",
			Name:      "login_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "account",
			Name:      "tokens_issued_total",
			Help:      "Issued tokens by kind (access, refresh).",
		}, []string{"kind"}),
		refreshErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "account",
			Name:      "refresh_rejected_total",
			Help:      "Rejected refresh attempts by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.logins, m.tokensIssued, m.refreshErrors)

	return m
}

// Login учитывает попытку входа.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// TokenIssued учитывает выпущенный токен ("access" или "refresh").
func (m *Metrics) TokenIssued(kind string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(kind).Inc()
}

// RefreshRejected учитывает отклонённое обновление сессии.
func (m *Metrics) RefreshRejected(reason string) {
	if m == nil {
		return
	}
	m.refreshErrors.WithLabelValues(reason).Inc()
}
