package tx

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// String returns the metadata node name for the action.
func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "CreatedNode"
	case ActionModify:
		return "ModifiedNode"
	case ActionErase:
		return "DeletedNode"
	default:
		return "Cached"
	}
}

var (
	errEntryExists   = errors.New("entry already exists")
	errEntryNotFound = errors.New("entry not found")
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state
}

// Change is one committed mutation, in the order the base view receives it.
type Change struct {
	Action Action
	Key    keylet.Keylet
	Data   []byte
}

// Committer is implemented by base views that persist a change set atomically.
type Committer interface {
	Commit(changes []Change) error
}

// ApplyStateTable wraps a LedgerView and stages every modification made while
// applying one transaction. Nothing reaches the base view until Apply.
type ApplyStateTable struct {
	base  LedgerView
	items map[keylet.Keylet]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[keylet.Keylet]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached. Absent entries read as nil.
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return nil, nil
		}
		return entry.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k] = &TrackedEntry{
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}

	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if entry, exists := t.items[k]; exists {
		return entry.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k]; exists {
		if entry.Action != ActionErase {
			return fmt.Errorf("%w: %s", errEntryExists, k)
		}
		// Re-inserting a deleted entry becomes a modify
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", errEntryExists, k)
	}

	t.items[k] = &TrackedEntry{
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return fmt.Errorf("%w (deleted): %s", errEntryNotFound, k)
		}
		if entry.Action == ActionCache {
			entry.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		entry.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return fmt.Errorf("%w: %s", errEntryNotFound, k)
	}

	t.items[k] = &TrackedEntry{
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Put inserts or updates k depending on whether it currently exists.
func (t *ApplyStateTable) Put(k keylet.Keylet, data []byte) error {
	exists, err := t.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return t.Update(k, data)
	}
	return t.Insert(k, data)
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return fmt.Errorf("%w (already deleted): %s", errEntryNotFound, k)
		}
		if entry.Action == ActionInsert {
			// Inserting then deleting = no change, remove from tracking
			delete(t.items, k)
			return nil
		}
		entry.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return fmt.Errorf("%w: %s", errEntryNotFound, k)
	}

	t.items[k] = &TrackedEntry{
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// ForEach iterates entries under prefix in key order, overlaying staged
// changes on the base view.
func (t *ApplyStateTable) ForEach(prefix []byte, fn func(k keylet.Keylet, data []byte) bool) error {
	type kv struct {
		raw  []byte
		key  keylet.Keylet
		data []byte
	}
	merged := make(map[keylet.Keylet][]byte)

	err := t.base.ForEach(prefix, func(k keylet.Keylet, data []byte) bool {
		merged[k] = data
		return true
	})
	if err != nil {
		return err
	}

	for k, entry := range t.items {
		if !bytes.HasPrefix(k.Bytes(), prefix) {
			continue
		}
		if entry.Action == ActionErase {
			delete(merged, k)
			continue
		}
		merged[k] = entry.Current
	}

	ordered := make([]kv, 0, len(merged))
	for k, data := range merged {
		ordered = append(ordered, kv{raw: k.Bytes(), key: k, data: data})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].raw, ordered[j].raw) < 0
	})

	for _, e := range ordered {
		if !fn(e.key, e.data) {
			break
		}
	}
	return nil
}

// Changes returns the staged mutations in key order, skipping reads and
// modifications that left the bytes unchanged.
func (t *ApplyStateTable) Changes() []Change {
	changes := make([]Change, 0, len(t.items))
	for k, entry := range t.items {
		switch entry.Action {
		case ActionCache:
			continue
		case ActionModify:
			if bytes.Equal(entry.Original, entry.Current) {
				continue
			}
			changes = append(changes, Change{Action: ActionModify, Key: k, Data: entry.Current})
		case ActionInsert:
			changes = append(changes, Change{Action: ActionInsert, Key: k, Data: entry.Current})
		case ActionErase:
			changes = append(changes, Change{Action: ActionErase, Key: k})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].Key.Bytes(), changes[j].Key.Bytes()) < 0
	})
	return changes
}

// Apply commits all changes to the base view and returns generated metadata.
// A base view implementing Committer receives the whole change set at once.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	changes := t.Changes()

	metadata := &Metadata{
		AffectedEntries: make([]AffectedEntry, 0, len(changes)),
	}
	for _, c := range changes {
		metadata.AffectedEntries = append(metadata.AffectedEntries, AffectedEntry{
			NodeType:  c.Action.String(),
			EntryType: c.Key.Type.String(),
			Token:     c.Key.Token,
			Account:   c.Key.Account,
		})
	}

	if committer, ok := t.base.(Committer); ok {
		if err := committer.Commit(changes); err != nil {
			return nil, err
		}
		return metadata, nil
	}

	for _, c := range changes {
		var err error
		switch c.Action {
		case ActionInsert:
			err = t.base.Insert(c.Key, c.Data)
		case ActionModify:
			err = t.base.Update(c.Key, c.Data)
		case ActionErase:
			err = t.base.Erase(c.Key)
		}
		if err != nil {
			return nil, err
		}
	}
	return metadata, nil
}
