package main

import (
	"context"
	"fmt"

	"github.com/kbukum/locator/bootstrap"
	"github.com/kbukum/locator/di"
)

// Weapon is what warriors are composed with.
type Weapon interface {
	Hit(target string) string
}

type Katana struct{}

func (*Katana) Hit(target string) string { return "Cut " + target + " in half" }

type Shuriken struct{}

func (*Shuriken) Hit(target string) string { return "Pierced " + target + "'s side" }

// Scroll is built per technique name by a key function.
type Scroll struct {
	Technique string
}

type Sensei struct {
	Name string
}

// Samurai gets the default weapon injected and is readied by an initializer.
type Samurai struct {
	Weapon Weapon `inject:""`
	Ready  bool
}

func (s *Samurai) Attack(target string) string { return s.Weapon.Hit(target) }

// Ninja carries both keyed weapons.
type Ninja struct {
	Primary   Weapon `inject:"katana"`
	Secondary Weapon `inject:"shuriken"`
}

func (n *Ninja) Attack(target string) string {
	return n.Primary.Hit(target) + ", then " + n.Secondary.Hit(target)
}

// Dojo is the composition root. It is closed on shutdown.
type Dojo struct {
	Sensei  *Sensei
	Samurai *Samurai
	Armory  []Weapon
	Scrolls []*Scroll
	open    bool
}

// NewDojo is the constructor the auto-wirer uses for *Dojo. Scrolls are
// keyed on demand, so the configured techniques are looked up one by one.
func NewDojo(sensei *Sensei, cfg *DojoConfig, r di.Resolver) (*Dojo, error) {
	samurai, err := di.Resolve[*Samurai](r)
	if err != nil {
		return nil, err
	}
	armory, err := di.ResolveAll[Weapon](r)
	if err != nil {
		return nil, err
	}
	d := &Dojo{Sensei: sensei, Samurai: samurai, Armory: armory, open: true}
	for _, technique := range cfg.Scrolls {
		s, err := di.ResolveKeyed[*Scroll](r, technique)
		if err != nil {
			return nil, err
		}
		d.Scrolls = append(d.Scrolls, s)
	}
	return d, nil
}

func (d *Dojo) Open() bool { return d.open }

func (d *Dojo) Close() error {
	d.open = false
	return nil
}

// composeDojo registers the dojo using each registration form once.
func composeDojo(ctx context.Context, app *bootstrap.App[*Config]) error {
	c := app.Container
	cfg := app.Cfg.Dojo

	steps := []struct {
		name     string
		register func() error
	}{
		{"dojo config", func() error { return di.RegisterInstance(c, &cfg) }},
		{"sensei", func() error { return di.RegisterInstance(c, &Sensei{Name: cfg.Master}) }},
		{"katana", func() error {
			return di.RegisterSingleKeyed[Weapon](c, "katana", func() (Weapon, error) { return &Katana{}, nil })
		}},
		{"shuriken", func() error {
			return di.RegisterKeyed[Weapon](c, "shuriken", func() (Weapon, error) { return &Shuriken{}, nil })
		}},
		{"default weapon", func() error {
			return di.RegisterSingle(c, func() (Weapon, error) { return di.ResolveKeyed[Weapon](c, cfg.DefaultWeapon) })
		}},
		{"scrolls", func() error {
			return di.RegisterSingleKeyFunc(c, func(technique string) (*Scroll, error) {
				return &Scroll{Technique: technique}, nil
			})
		}},
		{"samurai", func() error { return di.RegisterInitializer(c, func(s *Samurai) { s.Ready = true }) }},
		{"ninja", func() error { return di.RegisterConcrete[*Ninja](c) }},
		{"dojo", func() error { return di.RegisterSingleConcrete[*Dojo](c) }},
		{"armory", func() error { return di.RegisterAll[Weapon](c, []Weapon{&Katana{}, &Shuriken{}}) }},
	}
	for _, s := range steps {
		if err := s.register(); err != nil {
			return fmt.Errorf("registering %s: %w", s.name, err)
		}
	}
	return nil
}
