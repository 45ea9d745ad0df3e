// Package bootstrap provides application initialization and lifecycle
// management. NewApp is the application factory: every invocation builds a
// fully configured, independent application instance, which keeps tests
// isolated and configuration explicit.
//
// Usage:
//
//	app, err := bootstrap.NewApp(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := app.Start(ctx); err != nil {
//	    app.Shutdown()
//	    log.Fatal(err)
//	}
//
//	app.WaitForShutdown()
//	app.Shutdown()
package bootstrap
