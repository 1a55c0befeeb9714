package di

import (
	"fmt"
	"testing"

	"github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
)

type Weapon interface {
	Hit(target string) string
}

type Katana struct{ serial int }

func (k *Katana) Hit(target string) string { return "Cut " + target + " in half" }

type Shuriken struct{}

func (*Shuriken) Hit(target string) string { return "Pierced " + target + "'s side" }

type Samurai struct {
	Weapon Weapon `inject:""`
	Ready  bool
}

func (s *Samurai) Attack(target string) string { return s.Weapon.Hit(target) }

// tracked records Close calls into a shared log.
type tracked struct {
	name string
	log  *[]string
	err  error
}

func (t *tracked) Close() error {
	*t.log = append(*t.log, t.name)
	return t.err
}

func newTestContainer(opts ...Option) *Container {
	base := []Option{
		WithLogger(logger.NewNop()),
		WithMetrics(observability.NewNopRegistryMetrics()),
	}
	return New(append(base, opts...)...)
}

func newKatana() (*Katana, error) { return &Katana{}, nil }

func newWeapon() (Weapon, error) { return &Katana{}, nil }

func expectCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := errors.CodeOf(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

var errBoom = fmt.Errorf("boom")
