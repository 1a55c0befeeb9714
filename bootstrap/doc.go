// Package bootstrap is the composition root for processes hosting a
// locator container.
//
// It applies and validates configuration, initializes the logger and
// (optionally) OTLP telemetry, runs registration callbacks against the
// container, validates or locks it, and on shutdown closes the container.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    return di.RegisterSingle[Weapon](a.Container, NewKatana)
//	})
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    fmt.Println(di.MustResolve[*Samurai](app.Container).Attack("the enemy"))
//	    return nil
//	})
package bootstrap
