package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		roleGrantsTotal,
		roleRevokesTotal,
		eventsSkippedTotal,
		entitlementsExpiredTotal,
	)
}

var (
	roleGrantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rolesync_role_grants_total",
			Help: "Total roles granted, by role slug.",
		},
		[]string{"role"},
	)

	roleRevokesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rolesync_role_revokes_total",
			Help: "Total roles revoked, by role slug.",
		},
		[]string{"role"},
	)

	eventsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rolesync_events_skipped_total",
			Help: "Commerce events ignored by precondition, by event and reason.",
		},
		[]string{"event", "reason"},
	)

	entitlementsExpiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rolesync_entitlements_expired_total",
			Help: "Entitlements the sweeper marked expired, by kind.",
		},
		[]string{"kind"}, // 'subscription', 'access_pass'
	)
)

func IncRoleGrants(role string) {
	roleGrantsTotal.WithLabelValues(role).Inc()
}

func IncRoleRevokes(role string) {
	roleRevokesTotal.WithLabelValues(role).Inc()
}

func IncEventSkipped(event, reason string) {
	eventsSkippedTotal.WithLabelValues(event, reason).Inc()
}

func IncEntitlementsExpired(kind string, count int) {
	if count > 0 {
		entitlementsExpiredTotal.WithLabelValues(kind).Add(float64(count))
	}
}
