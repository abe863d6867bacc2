package types

const (
	ActionRabbitConnected         = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseQueryFailed   = "database_query_failed"
	ActionExternalServiceFailed = "external_service_failed"

	ActionResolveLocation = "resolve_location"
	ActionSearchWorkers   = "search_workers"
	ActionDispatchBatch   = "dispatch_batch"
)
