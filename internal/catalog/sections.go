// sections.go — homepage section definitions and their ordering.
//
// Sections carry an opaque UUID id; name stays unique but is an ordinary
// mutable attribute, so a rename never changes identity. The admin API
// still addresses sections by name.
//
// Ordering invariant: after a successful reorder, sort_order values are
// exactly 1..N across the full set. Creation appends at count+1; a
// toggle never renumbers, and a delete may leave a gap until the next
// reorder.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/marqueetv/marquee/internal/audit"
	"github.com/marqueetv/marquee/internal/validate"
)

// Section is one ordered homepage row definition.
type Section struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIString string    `json:"api_string"`
	MediaType string    `json:"media_type"`
	Active    bool      `json:"active"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const sectionCols = "id, name, api_string, media_type, active, sort_order, created_at, updated_at"

func scanSection(row interface{ Scan(...interface{}) error }) (*Section, error) {
	var s Section
	err := row.Scan(&s.ID, &s.Name, &s.APIString, &s.MediaType, &s.Active, &s.Order, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSections returns all sections ordered by sort_order.
func (s *Service) ListSections(ctx context.Context) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sectionCols+` FROM sections ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Section{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *sec)
	}
	return items, rows.Err()
}

// ActiveSections returns only active sections, for public rendering.
func (s *Service) ActiveSections(ctx context.Context) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sectionCols+` FROM sections WHERE active ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Section{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *sec)
	}
	return items, rows.Err()
}

// SectionInput is the payload for CreateSection.
type SectionInput struct {
	Name      string `json:"name"`
	APIString string `json:"api_string"`
	MediaType string `json:"media_type"`
	Active    *bool  `json:"active"`
}

// CreateSection appends a new section at order count+1.
func (s *Service) CreateSection(ctx context.Context, actor string, in SectionInput) (*Section, error) {
	var me validate.MultiError
	me.Add(validate.NonEmptyString("name", in.Name))
	me.Add(validate.MaxLength("name", in.Name, 100))
	me.Add(validate.IsAPIString("api_string", in.APIString))
	me.Add(validate.IsMediaType("media_type", in.MediaType))
	if me.HasErrors() {
		return nil, &me
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	var created *Section
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO sections (name, api_string, media_type, active, sort_order)
			VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM sections))
			RETURNING `+sectionCols,
			in.Name, in.APIString, in.MediaType, active,
		)
		sec, err := scanSection(row)
		if err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Resource: "section", Key: in.Name}
			}
			return err
		}
		created = sec

		return audit.Record(ctx, tx, actor, "CREATE_SECTION", "", map[string]interface{}{
			"name":       in.Name,
			"api_string": in.APIString,
			"media_type": in.MediaType,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("section created", "name", created.Name, "order", created.Order, "actor", actor)
	return created, nil
}

// SectionPatch is a partial update. Nil fields are left unchanged.
// A non-nil Name renames the section; the response carries the new name,
// which callers must use for subsequent requests.
type SectionPatch struct {
	Name      *string `json:"name"`
	APIString *string `json:"api_string"`
	MediaType *string `json:"media_type"`
	Active    *bool   `json:"active"`
}

// UpdateSection applies a partial update to the section addressed by name.
func (s *Service) UpdateSection(ctx context.Context, actor, name string, patch SectionPatch) (*Section, error) {
	var me validate.MultiError
	if patch.Name != nil {
		me.Add(validate.NonEmptyString("name", *patch.Name))
		me.Add(validate.MaxLength("name", *patch.Name, 100))
	}
	if patch.APIString != nil {
		me.Add(validate.IsAPIString("api_string", *patch.APIString))
	}
	if patch.MediaType != nil {
		me.Add(validate.IsMediaType("media_type", *patch.MediaType))
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
	if patch.APIString != nil {
		set += fmt.Sprintf(", api_string = $%d", argIdx)
		args = append(args, *patch.APIString)
		argIdx++
		changes["api_string"] = *patch.APIString
	}
	if patch.MediaType != nil {
		set += fmt.Sprintf(", media_type = $%d", argIdx)
		args = append(args, *patch.MediaType)
		argIdx++
		changes["media_type"] = *patch.MediaType
	}
	if patch.Active != nil {
		set += fmt.Sprintf(", active = $%d", argIdx)
		args = append(args, *patch.Active)
		argIdx++
		changes["active"] = *patch.Active
	}

	var updated *Section
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		args = append(args, name)
		row := tx.QueryRowContext(ctx, fmt.Sprintf(`
			UPDATE sections SET %s
			WHERE name = $%d
			RETURNING `+sectionCols, set, argIdx),
			args...,
		)
		sec, err := scanSection(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Resource: "section", Key: *patch.Name}
			}
			return err
		}
		updated = sec

		return audit.Record(ctx, tx, actor, "UPDATE_SECTION", "", map[string]interface{}{
			"section": name,
			"changes": changes,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("section updated", "name", name, "actor", actor)
	return updated, nil
}

// DeleteSection removes the section addressed by name.
func (s *Service) DeleteSection(ctx context.Context, actor, name string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE name = $1`, name)
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

		return audit.Record(ctx, tx, actor, "DELETE_SECTION", "", map[string]interface{}{
			"section": name,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("section deleted", "name", name, "actor", actor)
	return nil
}

// SectionOrder is one entry of a reorder request.
type SectionOrder struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ReorderSections atomically rewrites sort_order across the full
// section set. The request must be a permutation of every current
// section with order values exactly 1..N; anything else fails without
// touching the stored ordering.
func (s *Service) ReorderSections(ctx context.Context, actor string, orders []SectionOrder) ([]Section, error) {
	keys := make([]string, len(orders))
	vals := make([]int, len(orders))
	for i, o := range orders {
		keys[i] = o.Name
		vals[i] = o.Order
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT name FROM sections FOR UPDATE`)
		if err != nil {
			return err
		}
		current := map[string]bool{}
		for rows.Next() {
			var n string
			if err := rows.Scan(&n); err != nil {
				rows.Close()
				return err
			}
			current[n] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if err := checkPermutation("name", keys, vals, current); err != nil {
			return err
		}

		for _, o := range orders {
			if _, err := tx.ExecContext(ctx,
				`UPDATE sections SET sort_order = $1, updated_at = now() WHERE name = $2`,
				o.Order, o.Name,
			); err != nil {
				return err
			}
		}

		return audit.Record(ctx, tx, actor, "REORDER_SECTIONS", "", map[string]interface{}{
			"count": len(orders),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sections reordered", "count", len(orders), "actor", actor)
	return s.ListSections(ctx)
}

// checkPermutation validates that keys covers exactly the current key
// set and vals is exactly 1..N.
func checkPermutation(field string, keys []string, vals []int, current map[string]bool) error {
	var me validate.MultiError

	if len(keys) != len(current) {
		me.Add(&validate.ValidationError{
			Field:   "orders",
			Message: fmt.Sprintf("must cover the full set (%d given, %d exist)", len(keys), len(current)),
		})
		return &me
	}

	seen := map[string]bool{}
	for _, k := range keys {
		if !current[k] {
			me.Add(&validate.ValidationError{Field: field, Message: fmt.Sprintf("unknown %s %q", field, k)})
		}
		if seen[k] {
			me.Add(&validate.ValidationError{Field: field, Message: fmt.Sprintf("duplicate %s %q", field, k)})
		}
		seen[k] = true
	}

	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i+1 {
			me.Add(&validate.ValidationError{
				Field:   "order",
				Message: fmt.Sprintf("values must be exactly 1..%d with no gaps or duplicates", len(vals)),
			})
			break
		}
	}

	if me.HasErrors() {
		return &me
	}
	return nil
}
