// Package metrics registers the Prometheus collectors of mapadmin: HTTP
// request metrics recorded by a gin middleware and counters for the
// administration operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapadmin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mapadmin_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// UsersCreated counts users created through the administration service,
	// sub-admins included
	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapadmin_users_created_total",
		Help: "Total number of users created",
	})

	// UsersUpdated counts updated users
	UsersUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapadmin_users_updated_total",
		Help: "Total number of users updated",
	})

	// UsersDeleted counts deleted users
	UsersDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapadmin_users_deleted_total",
		Help: "Total number of users deleted",
	})

	// GroupsCreated counts created groups
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapadmin_groups_created_total",
		Help: "Total number of groups created",
	})

	// GroupsDeleted counts deleted groups
	GroupsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapadmin_groups_deleted_total",
		Help: "Total number of groups deleted",
	})

	// PasswordResets counts successful password resets
	PasswordResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapadmin_password_resets_total",
		Help: "Total number of password resets",
	})

	// MailsSent counts notification deliveries by result (ok, error)
	MailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapadmin_mails_sent_total",
		Help: "Total number of notification mails by delivery result",
	}, []string{"result"})
)

// Middleware records request count and duration per route. Requests that
// match no route are recorded under the path "unmatched" to keep the label
// cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// MailResult records a delivery attempt
func MailResult(err error) {
	if err != nil {
		MailsSent.WithLabelValues("error").Inc()
		return
	}
	MailsSent.WithLabelValues("ok").Inc()
}
