package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-level Prometheus metrics.
type Metrics struct {
	MerchantsRegistered prometheus.Counter
	GroupsCreated       prometheus.Counter
	GroupsDeleted       prometheus.Counter
	MembersAdded        prometheus.Counter
	SourceAssigned      prometheus.Counter
	BulkItemFailures    *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		MerchantsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "merchant_gateway_merchants_registered_total",
			Help: "Total number of merchants registered into the registry",
		}),
		GroupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "merchant_gateway_groups_created_total",
			Help: "Total number of merchant groups created",
		}),
		GroupsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "merchant_gateway_groups_deleted_total",
			Help: "Total number of merchant groups deleted",
		}),
		MembersAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "merchant_gateway_group_members_added_total",
			Help: "Total number of members added to groups",
		}),
		SourceAssigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "merchant_gateway_template_source_assigned_total",
			Help: "Total number of template source designations",
		}),
		BulkItemFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "merchant_gateway_bulk_item_failures_total",
			Help: "Per-item failures inside best-effort bulk operations",
		}, []string{"operation"}),
	}
}
