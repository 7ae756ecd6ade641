// Package logging builds the slog logger shared by the API, the relay and the
// CLI.
//
// Records logged with a context pick up the request_id set by the requestid
// middleware (or requestid.Ensure in the CLI). Webhook and relay URLs carry
// their trigger key in the query string, so they go through RedactURL
// before they are logged.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"}, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
package logging
