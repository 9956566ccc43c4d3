package cmd

// Config carries all environment-provided settings for the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RabbitURL is optional; when empty, events go to the log publisher.
	RabbitURL      string
	RabbitExchange string

	// GeocoderURL is optional; when empty, orders keep missing coordinates
	// until one is configured.
	GeocoderURL string

	// OSRMURL is optional; when empty, route planning uses the haversine
	// heuristic only.
	OSRMURL string

	// Business hours window, in hours of the day in TimeZone.
	HoursOpen   int
	HoursCutoff int
	HoursClose  int
	TimeZone    string

	AverageSpeedKmh float64
}
