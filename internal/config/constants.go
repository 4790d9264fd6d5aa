package config

import (
	"time"

	"gradesync/pkg/contracts"
)

// Application constants
const (
	AppName    = "gradesync"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. GRADESYNC_SERVER_PORT
	EnvPrefix = "GRADESYNC"
	// EnvConfigFile points at a YAML file when no path is given explicitly
	EnvConfigFile = "GRADESYNC_CONFIG"

	// Rate limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// Network timeouts
	DefaultAdviceTimeout = 45 * time.Second

	// Sheet geometry
	DefaultBlockHeight = 18
	DefaultBlockCount  = 10

	// Advice
	DefaultAdviceModel = "gemini-2.5-flash"
)

// Published CSV endpoints of the course spreadsheets
const (
	DefaultGradesURL          = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRf6H54cEZ1qHEv6cls6VGdlSm3TsdaMjah9G7FZtnM6caSgF9W0jQiUUyWlKGcNxV2VWG2VJCEJDzy/pub?output=csv"
	DefaultHomeworkURL        = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTE-dl9HZNTJa2KADj6mQzi_msTexolAVgvNETQfLgSce8EU2Qin-UDxl1biiI3cjR48meMLcgEAbJO/pub?gid=0&single=true&output=csv"
	DefaultLectureAbsencesURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQ-PWm0niepH6g0ao4V1lELFT3G4zBBoJara_kwRKIEvqpwEgcWJhELhmaOB6ShPcdXYJF3M4gBzQB4/pub?gid=0&single=true&output=csv"
)

// HTTP header names carrying the caller identity
const (
	HeaderUserID       = "X-User-ID"
	HeaderUserName     = "X-User-Name"
	HeaderUserLanguage = "X-User-Language"
)
