// Package app wires the gradebook server together and manages its lifecycle.
//
// NewApplication builds, in order: the logger, OpenTelemetry providers and
// metrics, the sheet loader, the optional Gemini advisor, the services, the
// chi router and the HTTP server. Nothing is fetched until Start, which
// launches the periodic refresh loop next to the server.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run stops on SIGINT, SIGTERM or cancellation of its context. In-flight
// requests get Server.ShutdownTimeout to finish, then telemetry is flushed.
// The package never calls os.Exit.
package app
