package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvQueueLanes     = "QUEUE_LANES"
	EnvConsultAvgMin  = "CONSULT_AVG_MIN"
	EnvClinicTimeZone = "CLINIC_TIME_ZONE"
	EnvWallboardLimit = "WALLBOARD_LIMIT"

	EnvAppointmentsBaseURL = "APPOINTMENTS_BASE_URL"
	EnvIdentityBaseURL     = "IDENTITY_BASE_URL"

	EnvCheckinTopic = "CHECKIN_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
