package metrics

// Metric names
const (
	MetricNamePlansGenerated       = "kisaan_plans_generated_total"
	MetricNameGenerationFailures   = "kisaan_plan_generation_failures_total"
	MetricNameGenerationDuration   = "kisaan_generation_duration_seconds"
	MetricNameTaskTransitions      = "kisaan_task_transitions_total"
	MetricNameUploads              = "kisaan_uploads_total"
	MetricNameHTTPRequestsTotal    = "kisaan_http_requests_total"
	MetricNameHTTPRequestDuration  = "kisaan_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "kisaan_http_requests_in_flight"
)

// Help text
const (
	HelpTextPlansGenerated       = "Action plans generated and fully persisted"
	HelpTextGenerationFailures   = "Plan generations that ended in an error, by error kind"
	HelpTextGenerationDuration   = "Time spent in the text generation call"
	HelpTextTaskTransitions      = "Task status transitions, by target status and result"
	HelpTextUploads              = "Photo uploads, by result"
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Labels
const (
	LabelKind   = "kind"
	LabelStatus = "status"
	LabelResult = "result"
	LabelMethod = "method"
	LabelPath   = "path"
	LabelCode   = "code"

	ResultOK    = "ok"
	ResultError = "error"
)

var (
	GenerationBuckets  = []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120}
	HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)
