package utils

const defaultServiceName = "portfolio-api"

// IsTracingEnabled reports whether OTEL_TRACES_ENABLED parses as true.
func IsTracingEnabled() bool {
	return GetEnvBoolOrDefault("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", defaultServiceName)
}
