// Package metrics 业务指标。所有 collector 注册到全局 registry，
// 由 router 中的 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "od_submissions_created_total",
			Help: "Number of submissions successfully created.",
		})

	SubmissionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "od_submissions_rejected_total",
			Help: "Number of rejected submission attempts by reason.",
		}, []string{"reason"})

	SubmissionEdits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "od_submission_edits_total",
			Help: "Number of submission edits by actor (user or admin).",
		}, []string{"actor"})

	NotificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "od_notification_failures_total",
			Help: "Number of notifications that could not be delivered.",
		}, []string{"kind"})

	ReportsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "od_reports_generated_total",
			Help: "Number of spreadsheet exports generated.",
		})
)

func init() {
	prometheus.MustRegister(
		SubmissionsCreated,
		SubmissionsRejected,
		SubmissionEdits,
		NotificationFailures,
		ReportsGenerated,
	)
}
