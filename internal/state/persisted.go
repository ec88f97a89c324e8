package state

import (
	"log/slog"
)

// SettingsStore is the durable key-value store behind the persisted slots
type SettingsStore interface {
	// LoadSlot decodes the slot into dest and reports whether it was present
	LoadSlot(key string, dest any) (bool, error)
	// SaveSlot writes the slot synchronously
	SaveSlot(key string, value any) error
}

const (
	slotUser            = "user"
	slotFilter          = "filter"
	slotSetting         = "setting"
	slotTranslator      = "translator"
	slotHistoryKeywords = "history_keywords"
)

type slotStore struct {
	store  SettingsStore
	logger *slog.Logger
}

func newSlotStore(store SettingsStore, logger *slog.Logger) *slotStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &slotStore{store: store, logger: logger}
}

// persisted is a value backed by a settings slot. It is read lazily on first
// access and written through on every set. Read and write failures are logged
// and leave the in-memory value authoritative.
type persisted[T any] struct {
	slots  *slotStore
	key    string
	def    func() T
	loaded bool
	stored bool // the slot held a value, or one was set
	value  T
}

func newPersisted[T any](slots *slotStore, key string, def func() T) persisted[T] {
	return persisted[T]{slots: slots, key: key, def: def}
}

func (p *persisted[T]) get() T {
	if p.loaded {
		return p.value
	}
	p.loaded = true
	p.value = p.def()
	if p.slots == nil || p.slots.store == nil {
		return p.value
	}

	var v T
	ok, err := p.slots.store.LoadSlot(p.key, &v)
	if err != nil {
		p.slots.logger.Warn("failed to load settings slot", "slot", p.key, "error", err)
		return p.value
	}
	if ok {
		p.value = v
		p.stored = true
	}
	return p.value
}

func (p *persisted[T]) set(v T) {
	p.loaded = true
	p.stored = true
	p.value = v
	if p.slots == nil || p.slots.store == nil {
		return
	}
	if err := p.slots.store.SaveSlot(p.key, v); err != nil {
		p.slots.logger.Error("failed to save settings slot", "slot", p.key, "error", err)
	}
}
