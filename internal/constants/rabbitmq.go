package constants

// Exchange names
const (
	TrackerExchange = "delinquency_exchange"
)

// Queue names
const (
	QueueDelinquencyFiles = "delinquency_files"
)

// Routing keys
const (
	RoutingKeyDelinquencyFiles = "ingest.file.available"
	RoutingKeyReportReady      = "notify.report.ready"
)

const (
	FinalDLXExchange   = "delinquency_files_final_dlx"
	FinalDLQ           = "delinquency_files_final_dlq"
	FinalDLQRoutingKey = "delinquency.dlq.key"
)
