// Package bootstrap builds an options service from one Config.
//
// NewApp registers the database and redis components the config enables,
// creates the shared store metrics and, for the memory cache backend, an
// in-process cache. Run and RunTask start telemetry and the components,
// run the configure and lifecycle hooks, and shut everything down in
// reverse order.
//
//	var cfg bootstrap.Config
//	if err := config.Load("modeloptions", &cfg); err != nil {
//	    return err
//	}
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return app.Cached().SetOption(ctx, user, "beta", true)
//	})
package bootstrap
