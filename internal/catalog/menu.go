// menu.go — navigation menu items.
//
// Menu items are keyed by opaque UUID id. Active and inactive items
// share one ordering space, unlike sections where only the active set
// carries the contiguity invariant.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marqueetv/marquee/internal/audit"
	"github.com/marqueetv/marquee/internal/validate"
)

// MenuItem is one ordered navigation entry.
type MenuItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Active    bool      `json:"active"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const menuItemCols = "id, name, path, active, sort_order, created_at, updated_at"

func scanMenuItem(row interface{ Scan(...interface{}) error }) (*MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Path, &m.Active, &m.Order, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMenuItems returns all menu items ordered by sort_order.
func (s *Service) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+menuItemCols+` FROM menu_items ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// ActiveMenuItems returns only active items, for public rendering.
func (s *Service) ActiveMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+menuItemCols+` FROM menu_items WHERE active ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// MenuItemInput is the payload for CreateMenuItem.
type MenuItemInput struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Active *bool  `json:"active"`
}

// CreateMenuItem appends a new menu item at order count+1.
func (s *Service) CreateMenuItem(ctx context.Context, actor string, in MenuItemInput) (*MenuItem, error) {
	var me validate.MultiError
	me.Add(validate.NonEmptyString("name", in.Name))
	me.Add(validate.MaxLength("name", in.Name, 100))
	me.Add(validate.IsMenuPath("path", in.Path))
	if me.HasErrors() {
		return nil, &me
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	var created *MenuItem
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO menu_items (name, path, active, sort_order)
			VALUES ($1, $2, $3, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM menu_items))
			RETURNING `+menuItemCols,
			in.Name, in.Path, active,
		)
		m, err := scanMenuItem(row)
		if err != nil {
			return err
		}
		created = m

		return audit.Record(ctx, tx, actor, "CREATE_MENU_ITEM", "", map[string]interface{}{
			"name": in.Name,
			"path": in.Path,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu item created", "id", created.ID, "name", created.Name, "actor", actor)
	return created, nil
}

// MenuItemPatch is a partial update. Nil fields are left unchanged.
type MenuItemPatch struct {
	Name   *string `json:"name"`
	Path   *string `json:"path"`
	Active *bool   `json:"active"`
}

// UpdateMenuItem applies a partial update to the item addressed by id.
func (s *Service) UpdateMenuItem(ctx context.Context, actor, id string, patch MenuItemPatch) (*MenuItem, error) {
	var me validate.MultiError
	me.Add(validate.IsUUID("id", id))
	if patch.Name != nil {
		me.Add(validate.NonEmptyString("name", *patch.Name))
		me.Add(validate.MaxLength("name", *patch.Name, 100))
	}
	if patch.Path != nil {
		me.Add(validate.IsMenuPath("path", *patch.Path))
	}
	if me.HasErrors() {
		return nil, &me
	}

	set := "updated_at = now()"
	args := []interface{}{}
	argIdx := 1
	changes := map[string]interface{}{}

	if patch.Name != nil {
		set += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *patch.Name)
		argIdx++
		changes["name"] = *patch.Name
	}
	if patch.Path != nil {
		set += fmt.Sprintf(", path = $%d", argIdx)
		args = append(args, *patch.Path)
		argIdx++
		changes["path"] = *patch.Path
	}
	if patch.Active != nil {
		set += fmt.Sprintf(", active = $%d", argIdx)
		args = append(args, *patch.Active)
		argIdx++
		changes["active"] = *patch.Active
	}

	var updated *MenuItem
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		args = append(args, id)
		row := tx.QueryRowContext(ctx, fmt.Sprintf(`
			UPDATE menu_items SET %s
			WHERE id = $%d
			RETURNING `+menuItemCols, set, argIdx),
			args...,
		)
		m, err := scanMenuItem(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		updated = m

		return audit.Record(ctx, tx, actor, "UPDATE_MENU_ITEM", "", map[string]interface{}{
			"menu_item": id,
			"changes":   changes,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu item updated", "id", id, "actor", actor)
	return updated, nil
}

// DeleteMenuItem removes the item addressed by id.
func (s *Service) DeleteMenuItem(ctx context.Context, actor, id string) error {
	if err := validate.IsUUID("id", id); err != nil {
		var me validate.MultiError
		me.Add(err)
		return &me
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		return audit.Record(ctx, tx, actor, "DELETE_MENU_ITEM", "", map[string]interface{}{
			"menu_item": id,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("menu item deleted", "id", id, "actor", actor)
	return nil
}

// MenuItemOrder is one entry of a reorder request.
type MenuItemOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ReorderMenuItems atomically rewrites sort_order across the full menu.
// Same permutation contract as ReorderSections, keyed by id.
func (s *Service) ReorderMenuItems(ctx context.Context, actor string, orders []MenuItemOrder) ([]MenuItem, error) {
	keys := make([]string, len(orders))
	vals := make([]int, len(orders))
	for i, o := range orders {
		keys[i] = o.ID
		vals[i] = o.Order
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM menu_items FOR UPDATE`)
		if err != nil {
			return err
		}
		current := map[string]bool{}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			current[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if err := checkPermutation("id", keys, vals, current); err != nil {
			return err
		}

		for _, o := range orders {
			if _, err := tx.ExecContext(ctx,
				`UPDATE menu_items SET sort_order = $1, updated_at = now() WHERE id = $2`,
				o.Order, o.ID,
			); err != nil {
				return err
			}
		}

		return audit.Record(ctx, tx, actor, "REORDER_MENU", "", map[string]interface{}{
			"count": len(orders),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu reordered", "count", len(orders), "actor", actor)
	return s.ListMenuItems(ctx)
}
