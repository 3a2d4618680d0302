package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printflow_orders_created_total",
		Help: "Orders created, by origin.",
	}, []string{"origin"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printflow_order_status_transitions_total",
		Help: "Applied order status transitions, by target status.",
	}, []string{"status"})

	InventoryDeductions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printflow_inventory_deductions_total",
		Help: "Inventory items deducted by order completion.",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printflow_notifications_sent_total",
		Help: "Client status notifications dispatched through the gateway.",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printflow_notifications_failed_total",
		Help: "Notification dispatch failures that fell back to a manual link.",
	})
)
