// Package newsmode owns which content stream the ticker shows.
//
// Machine is the single source of truth for the active mode, the custom
// entries and the breaking payload. Every transition is applied to memory in
// one step and then written to durable storage in one transaction.
//
// Machine is not safe for concurrent use; drive it from one goroutine.
package newsmode

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/bantin/internal/logging"
	"github.com/abelbrown/bantin/internal/model"
)

// Persisted keys.
const (
	KeyMode          = "news_mode"
	KeyBreakingTag   = "breaking_tag"
	KeyBreakingItems = "breaking_items"
)

// Transition errors. All of them leave the machine unchanged.
var (
	ErrNoCustomEntries = errors.New("no custom entries")
	ErrEmptyTag        = errors.New("breaking tag is empty")
	ErrNoBreakingItems = errors.New("no breaking items")
	ErrEmptyEntry      = errors.New("custom entry is empty")
	ErrIndexOutOfRange = errors.New("custom entry index out of range")
)

// ErrPersist wraps storage failures. The in-memory transition has already
// been applied when it is returned.
var ErrPersist = errors.New("persist news mode")

// KV is the durable key/value storage the machine writes through.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	SetAll(values map[string]string) error
	Delete(keys ...string) error
}

// Machine arbitrates between syndicated, custom and breaking content.
type Machine struct {
	kv         KV
	defaultTag string

	mode     model.NewsMode
	breaking model.BreakingPayload
	custom   []string
}

// Load restores the machine from kv. It never fails: unreadable or corrupt
// values fall back to the same shape ResetBreaking produces.
func Load(kv KV, defaultTag string) *Machine {
	m := &Machine{
		kv:         kv,
		defaultTag: defaultTag,
		mode:       model.ModeSyndicated,
		breaking:   model.BreakingPayload{Tag: defaultTag, Items: []string{}},
	}
	if kv == nil {
		return m
	}

	if raw, ok, err := kv.Get(KeyMode); err != nil {
		logging.Warn("newsmode: read mode failed", "error", err)
	} else if ok {
		m.mode = model.ParseNewsMode(raw)
	}

	if raw, ok, err := kv.Get(KeyBreakingTag); err != nil {
		logging.Warn("newsmode: read breaking tag failed", "error", err)
	} else if ok && strings.TrimSpace(raw) != "" {
		m.breaking.Tag = raw
	}

	if raw, ok, err := kv.Get(KeyBreakingItems); err != nil {
		logging.Warn("newsmode: read breaking items failed", "error", err)
	} else if ok {
		items, err := decodeItems(raw)
		if err != nil {
			logging.Warn("newsmode: discarding corrupt breaking items", "error", err)
			if err := kv.Delete(KeyBreakingItems); err != nil {
				logging.Warn("newsmode: remove corrupt breaking items failed", "error", err)
			}
			m.breaking = model.BreakingPayload{Tag: defaultTag, Items: []string{}}
		} else {
			m.breaking.Items = items
		}
	}

	// Breaking needs items and custom entries are never persisted, so neither
	// mode can be honoured on its own after a restart.
	switch {
	case m.mode == model.ModeBreaking && len(m.breaking.Items) == 0:
		logging.Info("newsmode: persisted breaking mode has no items, using syndicated")
		m.mode = model.ModeSyndicated
	case m.mode == model.ModeCustom:
		m.mode = model.ModeSyndicated
	}

	return m
}

func decodeItems(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if items == nil {
		// "null" is valid JSON but not a list
		return nil, fmt.Errorf("breaking items are not a list")
	}
	return items, nil
}

// Mode returns the active mode.
func (m *Machine) Mode() model.NewsMode {
	return m.mode
}

// Breaking returns a copy of the breaking payload.
func (m *Machine) Breaking() model.BreakingPayload {
	return m.breaking.Clone()
}

// Custom returns a copy of the custom entries.
func (m *Machine) Custom() []string {
	out := make([]string, len(m.custom))
	copy(out, m.custom)
	return out
}

// DefaultTag is the tag restored by ResetBreaking.
func (m *Machine) DefaultTag() string {
	return m.defaultTag
}

// AddCustom appends an operator entry. Mode is unchanged.
func (m *Machine) AddCustom(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyEntry
	}
	m.custom = append(m.custom, text)
	return nil
}

// RemoveCustomAt deletes the entry at index. Mode is unchanged.
func (m *Machine) RemoveCustomAt(index int) error {
	if index < 0 || index >= len(m.custom) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	next := make([]string, 0, len(m.custom)-1)
	next = append(next, m.custom[:index]...)
	next = append(next, m.custom[index+1:]...)
	m.custom = next
	return nil
}

// ClearCustom removes every custom entry. Mode is unchanged, so an active
// custom mode renders the loading placeholder until the operator switches.
func (m *Machine) ClearCustom() {
	m.custom = nil
}

// SelectCustom switches to custom mode. Rejected when there are no entries.
func (m *Machine) SelectCustom() error {
	if len(m.custom) == 0 {
		return ErrNoCustomEntries
	}
	m.mode = model.ModeCustom
	return m.persist(false)
}

// SelectSyndicated switches to syndicated mode. The breaking payload is kept
// so it can be shown again without regenerating it.
func (m *Machine) SelectSyndicated() error {
	m.mode = model.ModeSyndicated
	return m.persist(false)
}

// ActivateBreaking replaces the breaking payload and switches to breaking
// mode. Blank items are dropped; at least one must remain.
func (m *Machine) ActivateBreaking(tag string, items []string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrEmptyTag
	}
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return ErrNoBreakingItems
	}

	m.breaking = model.BreakingPayload{Tag: tag, Items: kept}
	m.mode = model.ModeBreaking
	return m.persist(true)
}

// ResetBreaking clears the breaking payload, returns to syndicated mode and
// erases every persisted key. Valid from any state.
func (m *Machine) ResetBreaking() error {
	m.breaking = model.BreakingPayload{Tag: m.defaultTag, Items: []string{}}
	m.mode = model.ModeSyndicated
	if m.kv == nil {
		return nil
	}
	if err := m.kv.Delete(KeyMode, KeyBreakingTag, KeyBreakingItems); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// persist writes the mode, and the breaking payload when withPayload is set,
// in one call.
func (m *Machine) persist(withPayload bool) error {
	if m.kv == nil {
		return nil
	}
	values := map[string]string{KeyMode: string(m.mode)}
	if withPayload {
		data, err := json.Marshal(m.breaking.Items)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
		values[KeyBreakingTag] = m.breaking.Tag
		values[KeyBreakingItems] = string(data)
	}
	if err := m.kv.SetAll(values); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
