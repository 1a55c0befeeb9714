package di

import (
	stderrors "errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/kbukum/locator/errors"
)

func TestLedgerProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,8}`), func(s string) string { return s }).Draw(t, "keys")
		singleton := rapid.Bool().Draw(t, "singleton")

		c := newTestContainer()
		for _, key := range keys {
			var err error
			if singleton {
				err = RegisterSingleKeyed(c, key, newKatana)
			} else {
				err = RegisterKeyed(c, key, newKatana)
			}
			if err != nil {
				t.Fatalf("registering key %q: %v", key, err)
			}
		}
		if err := Register(c, newKatana); err != nil {
			t.Fatalf("unkeyed registration must not collide with keyed ones: %v", err)
		}

		if len(keys) > 0 {
			dup := rapid.SampledFrom(keys).Draw(t, "dup")
			if err := RegisterSingleKeyed(c, dup, newKatana); !stderrors.Is(err, errors.ErrDuplicateRegistration) {
				t.Fatalf("expected duplicate for key %q, got %v", dup, err)
			}
		}

		for _, key := range keys {
			a, err := ResolveKeyed[*Katana](c, key)
			if err != nil {
				t.Fatalf("resolving key %q: %v", key, err)
			}
			b, _ := ResolveKeyed[*Katana](c, key)
			if singleton != (a == b) {
				t.Fatalf("key %q: singleton=%v but identical=%v", key, singleton, a == b)
			}
		}

		if err := RegisterKeyed(c, "late", newKatana); !stderrors.Is(err, errors.ErrContainerLocked) {
			t.Fatalf("expected ContainerLocked after resolve, got %v", err)
		}
	})
}

func TestCollectionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		serials := rapid.SliceOfN(rapid.IntRange(0, 1000), 0, 32).Draw(t, "serials")
		withScalar := rapid.Bool().Draw(t, "withScalar")

		items := make([]*Katana, len(serials))
		for i, s := range serials {
			items[i] = &Katana{serial: s}
		}

		c := newTestContainer()
		if withScalar {
			if err := RegisterSingle(c, newKatana); err != nil {
				t.Fatalf("scalar registration: %v", err)
			}
		}
		if err := RegisterAll(c, items); err != nil {
			t.Fatalf("collection registration: %v", err)
		}

		got, err := ResolveAll[*Katana](c)
		if err != nil {
			t.Fatalf("resolve all: %v", err)
		}
		if len(got) != len(serials) {
			t.Fatalf("expected %d items, got %d", len(serials), len(got))
		}
		for i := range got {
			if got[i] != items[i] {
				t.Fatalf("item %d out of order", i)
			}
		}
	})
}
