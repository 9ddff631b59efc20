package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldOwnerKey      = "owner_key"
	FieldTransactionID = "transaction_id"
	FieldGoalID        = "goal_id"
	FieldAmount        = "amount"
	FieldKind          = "kind"
	FieldCategory      = "category"
	FieldFilterMode    = "filter_mode"
	FieldWindowStart   = "window_start"
	FieldWindowEnd     = "window_end"
	FieldReportFormat  = "report_format"
	FieldSheetsRef     = "sheets_ref"
	FieldJobID         = "job_id"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentAuth     = "auth"
	ComponentCore     = "core"
	ComponentStorage  = "storage"
	ComponentBilling  = "billing"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentImporter = "importer"
	ComponentCache    = "cache"
)
