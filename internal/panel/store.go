// store.go — panel list state with optimistic mutations.
//
// Ordered lists follow one state machine: move swaps the two adjacent
// rows locally and renumbers 1..N before the network call resolves, the
// moved key is marked updating so it cannot be moved again while in
// flight, and a failed reorder discards the optimistic list and
// refetches the authoritative one. Toggles flip the flag locally and
// revert it on failure. Responses that land after a concurrent refresh
// are discarded rather than applied.
package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/handlers"
)

// API is the slice of Client the store drives. Tests substitute fakes.
type API interface {
	ListSections(ctx context.Context) ([]catalog.Section, error)
	ReorderSections(ctx context.Context, orders []catalog.SectionOrder) ([]catalog.Section, error)
	UpdateSection(ctx context.Context, name string, patch catalog.SectionPatch) (*catalog.Section, error)
	ListMenuItems(ctx context.Context) ([]catalog.MenuItem, error)
	ReorderMenuItems(ctx context.Context, orders []catalog.MenuItemOrder) ([]catalog.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, patch catalog.MenuItemPatch) (*catalog.MenuItem, error)
	ListContents(ctx context.Context, page, limit int) (*ContentPage, error)
	UpdateContent(ctx context.Context, externalID int, mediaType string, patch catalog.ContentPatch) (*catalog.Content, error)
}

// Notifier receives the user-visible outcome of each mutation.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

// Direction of a move operation.
type Direction int

const (
	Up Direction = iota
	Down
)

// Store caches the panel's lists. All local copies are treated as
// potentially stale; any mutation failure reconciles by full refetch.
type Store struct {
	api    API
	notify Notifier

	mu       sync.Mutex
	sections []catalog.Section
	menu     []catalog.MenuItem
	contents []handlers.EnrichedContent
	updating map[string]bool

	// Bumped by every refresh; in-flight responses captured under an
	// older generation are discarded.
	sectionsGen uint64
	menuGen     uint64
	contentsGen uint64
}

func NewStore(api API, notify Notifier) *Store {
	if notify == nil {
		notify = noopNotifier{}
	}
	return &Store{
		api:      api,
		notify:   notify,
		updating: map[string]bool{},
	}
}

// ── snapshots ─────────────────────────────────────────────────────────────────

func (st *Store) Sections() []catalog.Section {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]catalog.Section, len(st.sections))
	copy(out, st.sections)
	return out
}

func (st *Store) MenuItems() []catalog.MenuItem {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]catalog.MenuItem, len(st.menu))
	copy(out, st.menu)
	return out
}

func (st *Store) Contents() []handlers.EnrichedContent {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]handlers.EnrichedContent, len(st.contents))
	copy(out, st.contents)
	return out
}

// Updating reports whether a row key has a mutation in flight.
func (st *Store) Updating(key string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.updating[key]
}

// ── refresh ───────────────────────────────────────────────────────────────────

func (st *Store) RefreshSections(ctx context.Context) error {
	sections, err := st.api.ListSections(ctx)
	if err != nil {
		return err
	}
	st.mu.Lock()
	st.sections = sections
	st.sectionsGen++
	st.mu.Unlock()
	return nil
}

func (st *Store) RefreshMenuItems(ctx context.Context) error {
	items, err := st.api.ListMenuItems(ctx)
	if err != nil {
		return err
	}
	st.mu.Lock()
	st.menu = items
	st.menuGen++
	st.mu.Unlock()
	return nil
}

func (st *Store) RefreshContents(ctx context.Context, page, limit int) error {
	pageData, err := st.api.ListContents(ctx, page, limit)
	if err != nil {
		return err
	}
	st.mu.Lock()
	st.contents = pageData.Items
	st.contentsGen++
	st.mu.Unlock()
	return nil
}

// ── sections: move and toggle ─────────────────────────────────────────────────

// MoveSection swaps the section at index with its neighbor and persists
// the full renumbered order. Moves off either end are no-ops.
func (st *Store) MoveSection(ctx context.Context, index int, dir Direction) error {
	st.mu.Lock()
	j, ok := st.moveTarget(index, dir, len(st.sections))
	if !ok {
		st.mu.Unlock()
		return nil
	}
	key := st.sections[index].Name
	if st.updating[key] {
		st.mu.Unlock()
		return nil
	}

	st.sections[index], st.sections[j] = st.sections[j], st.sections[index]
	for i := range st.sections {
		st.sections[i].Order = i + 1
	}
	st.updating[key] = true
	orders := make([]catalog.SectionOrder, len(st.sections))
	for i, sec := range st.sections {
		orders[i] = catalog.SectionOrder{Name: sec.Name, Order: sec.Order}
	}
	gen := st.sectionsGen
	st.mu.Unlock()

	confirmed, err := st.api.ReorderSections(ctx, orders)

	st.mu.Lock()
	delete(st.updating, key)
	if err != nil {
		st.mu.Unlock()
		st.rollbackSections(ctx, gen)
		st.notify.Error("Failed to reorder sections")
		return err
	}
	if gen == st.sectionsGen {
		st.sections = confirmed
	}
	st.mu.Unlock()
	st.notify.Success("Sections reordered")
	return nil
}

// rollbackSections discards the optimistic list and reloads the
// authoritative one. A refresh that raced us wins.
func (st *Store) rollbackSections(ctx context.Context, gen uint64) {
	fresh, err := st.api.ListSections(ctx)
	if err != nil {
		return
	}
	st.mu.Lock()
	if gen == st.sectionsGen {
		st.sections = fresh
	}
	st.mu.Unlock()
}

// ToggleSection flips a section's active flag optimistically.
func (st *Store) ToggleSection(ctx context.Context, name string) error {
	st.mu.Lock()
	idx := -1
	for i, sec := range st.sections {
		if sec.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 || st.updating[name] {
		st.mu.Unlock()
		return nil
	}
	next := !st.sections[idx].Active
	st.sections[idx].Active = next
	st.updating[name] = true
	gen := st.sectionsGen
	st.mu.Unlock()

	updated, err := st.api.UpdateSection(ctx, name, catalog.SectionPatch{Active: &next})

	st.mu.Lock()
	delete(st.updating, name)
	if err != nil {
		if gen == st.sectionsGen && idx < len(st.sections) && st.sections[idx].Name == name {
			st.sections[idx].Active = !next
		}
		st.mu.Unlock()
		st.notify.Error(fmt.Sprintf("Failed to update section %q", name))
		return err
	}
	if gen == st.sectionsGen && idx < len(st.sections) && st.sections[idx].Name == name {
		st.sections[idx] = *updated
	}
	st.mu.Unlock()
	st.notify.Success(fmt.Sprintf("Section %q updated", name))
	return nil
}

// ── menu items: move and toggle ───────────────────────────────────────────────

func (st *Store) MoveMenuItem(ctx context.Context, index int, dir Direction) error {
	st.mu.Lock()
	j, ok := st.moveTarget(index, dir, len(st.menu))
	if !ok {
		st.mu.Unlock()
		return nil
	}
	key := st.menu[index].ID
	if st.updating[key] {
		st.mu.Unlock()
		return nil
	}

	st.menu[index], st.menu[j] = st.menu[j], st.menu[index]
	for i := range st.menu {
		st.menu[i].Order = i + 1
	}
	st.updating[key] = true
	orders := make([]catalog.MenuItemOrder, len(st.menu))
	for i, item := range st.menu {
		orders[i] = catalog.MenuItemOrder{ID: item.ID, Order: item.Order}
	}
	gen := st.menuGen
	st.mu.Unlock()

	confirmed, err := st.api.ReorderMenuItems(ctx, orders)

	st.mu.Lock()
	delete(st.updating, key)
	if err != nil {
		st.mu.Unlock()
		st.rollbackMenu(ctx, gen)
		st.notify.Error("Failed to reorder menu")
		return err
	}
	if gen == st.menuGen {
		st.menu = confirmed
	}
	st.mu.Unlock()
	st.notify.Success("Menu reordered")
	return nil
}

func (st *Store) rollbackMenu(ctx context.Context, gen uint64) {
	fresh, err := st.api.ListMenuItems(ctx)
	if err != nil {
		return
	}
	st.mu.Lock()
	if gen == st.menuGen {
		st.menu = fresh
	}
	st.mu.Unlock()
}

// ToggleMenuItem flips a menu item's active flag optimistically.
func (st *Store) ToggleMenuItem(ctx context.Context, id string) error {
	st.mu.Lock()
	idx := -1
	for i, item := range st.menu {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || st.updating[id] {
		st.mu.Unlock()
		return nil
	}
	next := !st.menu[idx].Active
	st.menu[idx].Active = next
	st.updating[id] = true
	gen := st.menuGen
	st.mu.Unlock()

	updated, err := st.api.UpdateMenuItem(ctx, id, catalog.MenuItemPatch{Active: &next})

	st.mu.Lock()
	delete(st.updating, id)
	if err != nil {
		if gen == st.menuGen && idx < len(st.menu) && st.menu[idx].ID == id {
			st.menu[idx].Active = !next
		}
		st.mu.Unlock()
		st.notify.Error("Failed to update menu item")
		return err
	}
	if gen == st.menuGen && idx < len(st.menu) && st.menu[idx].ID == id {
		st.menu[idx] = *updated
	}
	st.mu.Unlock()
	st.notify.Success("Menu item updated")
	return nil
}

// ── contents: toggle visibility ───────────────────────────────────────────────

// ToggleContent flips a content's available flag optimistically.
func (st *Store) ToggleContent(ctx context.Context, externalID int, mediaType string) error {
	key := fmt.Sprintf("%d/%s", externalID, mediaType)

	st.mu.Lock()
	idx := -1
	for i, c := range st.contents {
		if c.ExternalID == externalID && c.MediaType == mediaType {
			idx = i
			break
		}
	}
	if idx < 0 || st.updating[key] {
		st.mu.Unlock()
		return nil
	}
	next := !st.contents[idx].Available
	st.contents[idx].Available = next
	st.updating[key] = true
	gen := st.contentsGen
	st.mu.Unlock()

	_, err := st.api.UpdateContent(ctx, externalID, mediaType, catalog.ContentPatch{Available: &next})

	st.mu.Lock()
	delete(st.updating, key)
	if err != nil {
		if gen == st.contentsGen && idx < len(st.contents) &&
			st.contents[idx].ExternalID == externalID && st.contents[idx].MediaType == mediaType {
			st.contents[idx].Available = !next
		}
		st.mu.Unlock()
		st.notify.Error("Failed to update content visibility")
		return err
	}
	st.mu.Unlock()
	st.notify.Success("Content visibility updated")
	return nil
}

// moveTarget validates a move and returns the neighbor index.
func (st *Store) moveTarget(index int, dir Direction, n int) (int, bool) {
	if index < 0 || index >= n {
		return 0, false
	}
	switch dir {
	case Up:
		if index == 0 {
			return 0, false
		}
		return index - 1, true
	case Down:
		if index == n-1 {
			return 0, false
		}
		return index + 1, true
	default:
		return 0, false
	}
}
