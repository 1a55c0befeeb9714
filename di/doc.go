// Package di is a runtime object-composition registry.
//
// Callers register, under a service identity (a type plus an optional key),
// a strategy for producing instances of that type, then resolve fully built
// instances by identity. A container starts in the Configuring state and is
// locked by the first Resolve, by Validate or by an explicit Lock; after that
// every registration fails with CONTAINER_LOCKED.
//
// # Registration
//
//	c := di.New()
//	di.Register[Weapon](c, func() (Weapon, error) { return &Katana{}, nil })
//	di.RegisterSingle[*Dojo](c, func() (*Dojo, error) { return &Dojo{Name: "Koga"}, nil })
//	di.RegisterInitializer[*Samurai](c, func(s *Samurai) { s.Ready = true })
//	di.RegisterAll[Weapon](c, []Weapon{&Katana{}, &Shuriken{}})
//
// # Resolution
//
//	samurai := di.MustResolve[*Samurai](c)
//	weapons, err := di.ResolveAll[Weapon](c)
//
// Singletons are built lazily and exactly once, even under concurrent first
// access. A failing producer leaves the singleton unbuilt so a later resolve
// retries.
package di
