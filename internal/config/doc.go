// Package config loads gradesync configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. Default()
//  2. a YAML file (the --config flag, $GRADESYNC_CONFIG, or gradesync.yaml in
//     the working directory or configs/)
//  3. GRADESYNC_* environment variables
//
// Nested sections map to underscored names:
//
//	GRADESYNC_SERVER_PORT=9090
//	GRADESYNC_SHEETS_GRADES_URL=https://...
//	GRADESYNC_ACCESS_ALLOWED_USER_IDS=101,102,103
//	GRADESYNC_ACCESS_ADMIN_ID=101
//	GRADESYNC_ADVICE_API_KEY=...
//	GRADESYNC_TELEMETRY_TRACE_EXPORTER=stdout
//
// The final struct is checked with validator tags before it is returned.
package config
