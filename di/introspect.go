package di

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
)

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	ID           string `json:"id"`
	Service      string `json:"service"`
	Key          string `json:"key,omitempty"`
	Lifestyle    string `json:"lifestyle"`
	Kind         string `json:"kind"`
	Materialized bool   `json:"materialized"`
	Source       string `json:"source"`
}

// CollectionInfo describes a registered collection.
type CollectionInfo struct {
	ID      string `json:"id"`
	Service string `json:"service"`
	Count   int    `json:"count"`
	Source  string `json:"source"`
}

// Registrations lists scalar registrations and keyed factories in the
// order they were made. A keyed factory is reported with key "*" and is
// materialized once any of its keys has been built.
func (c *Container) Registrations() []RegistrationInfo {
	regs, kfs, _ := c.ledger.snapshot()

	type entry struct {
		seq  int
		info RegistrationInfo
	}
	entries := make([]entry, 0, len(regs)+len(kfs))
	for _, reg := range regs {
		_, built := reg.strategy.instance()
		entries = append(entries, entry{reg.seq, RegistrationInfo{
			ID:           reg.ID,
			Service:      typeName(reg.Identity.Type),
			Key:          reg.Identity.Key,
			Lifestyle:    reg.Lifestyle.String(),
			Kind:         string(reg.Kind),
			Materialized: built,
			Source:       reg.Source.String(),
		}})
	}
	for _, kf := range kfs {
		entries = append(entries, entry{kf.seq, RegistrationInfo{
			ID:           kf.id,
			Service:      typeName(kf.typ),
			Key:          "*",
			Lifestyle:    kf.lifestyle.String(),
			Kind:         string(KindKeyFunc),
			Materialized: len(kf.materialized()) > 0,
			Source:       kf.source.String(),
		}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]RegistrationInfo, len(entries))
	for i, e := range entries {
		out[i] = e.info
	}
	return out
}

// Collections lists registered collections in registration order.
func (c *Container) Collections() []CollectionInfo {
	_, _, cols := c.ledger.snapshot()
	out := make([]CollectionInfo, 0, len(cols))
	for _, col := range cols {
		out = append(out, CollectionInfo{
			ID:      col.id,
			Service: typeName(col.typ),
			Count:   len(col.items),
			Source:  col.source.String(),
		})
	}
	return out
}

// Close locks the container and closes every singleton it owns that
// implements io.Closer, newest registration first. The container owns every
// materialized singleton and every RegisterInstance value, resolved or not.
// Collection items are owned by the caller and are not closed. Close is
// idempotent.
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.Lock()
	regs, kfs, _ := c.ledger.snapshot()

	type owned struct {
		seq     int
		service string
		value   any
	}
	var built []owned
	for _, reg := range regs {
		if v, ok := reg.strategy.owned(); ok {
			built = append(built, owned{reg.seq, reg.Identity.String(), v})
		}
	}
	for _, kf := range kfs {
		for _, v := range kf.materialized() {
			built = append(built, owned{kf.seq, typeName(kf.typ), v})
		}
	}
	// Stable keeps per-key creation order within one keyed factory.
	sort.SliceStable(built, func(i, j int) bool { return built[i].seq < built[j].seq })

	var errs []error
	closed := 0
	for i := len(built) - 1; i >= 0; i-- {
		closer, ok := built[i].value.(io.Closer)
		if !ok {
			continue
		}
		closed++
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", built[i].service, err))
		}
	}

	c.log.Info("container closed", map[string]interface{}{
		"closed":   closed,
		"failures": len(errs),
	})
	return stderrors.Join(errs...)
}
