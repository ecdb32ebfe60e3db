package tracing

// Span attribute keys.
const (
	AttrRequestID   = "fetch.request.id"
	AttrRequestKind = "fetch.request.kind"
	AttrTaskID      = "fetch.task.id"
	AttrSearchTerm  = "off.search.term"
	AttrProductCode = "off.product.code"
	AttrResultCount = "off.result.count"
	AttrHTTPStatus  = "http.response.status_code"
	AttrHTTPURL     = "url.full"
	AttrErrorClass  = "error.class"
)

// Span names.
const (
	SpanWorkerTask    = "worker.task"
	SpanSearchRequest = "off.search"
	SpanDetailRequest = "off.product"
)

// Event names.
const (
	EventMessageSent   = "message.sent"
	EventSendFailed    = "message.send_failed"
	EventPanicRecovery = "worker.panic_recovered"
)
