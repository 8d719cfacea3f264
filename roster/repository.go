// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcodagnone/flotilla/spatial"
	"github.com/uber/h3-go/v4"
)

// Assignment binds one visitor to a committed bus load.
type Assignment struct {
	VisitorID int
	Loop      int
	Label     int
}

// LoadSummary is the reporting view of one committed load.
type LoadSummary struct {
	Loop     int           `json:"loop"`
	Label    int           `json:"label"`
	Visitors int           `json:"visitors"`
	Centroid spatial.Point `json:"centroid"`
}

// DensityCell counts visitors inside one H3 cell.
type DensityCell struct {
	Cell     int64 `json:"cell"`
	Visitors int   `json:"visitors"`
}

// Repository handles persistence of visitors and their load assignments.
type Repository interface {
	// CreateSchema creates the visitors and loads tables
	CreateSchema() error

	// BulkInsertVisitors inserts a slice of visitors into the database
	BulkInsertVisitors(visitors []*Visitor) error

	// ListVisitors returns all visitors ordered by id
	ListVisitors() ([]*Visitor, error)

	// CountVisitors returns the total number of visitors
	CountVisitors() (int, error)

	// ClearVisitors removes all visitors and their assignments
	ClearVisitors() error

	// SaveAssignments replaces the stored load assignments
	SaveAssignments(assignments []Assignment) error

	// LoadSummaries returns per-load head counts and centroids
	LoadSummaries() ([]*LoadSummary, error)

	// DensityByH3 counts visitors per H3 cell at resolution 5, 6 or 7
	DensityByH3(res int) ([]*DensityCell, error)
}

type sqlRosterRepository struct {
	db *sql.DB
}

// NewRepository creates a new roster repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRosterRepository{db: db}
}

func (v *Visitor) computeH3() error {
	latLng := h3.NewLatLng(v.Point.Lat, v.Point.Lng)
	for res := 5; res <= 7; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 5:
			v.H3Res5 = int64(cell)
		case 6:
			v.H3Res6 = int64(cell)
		case 7:
			v.H3Res7 = int64(cell)
		}
	}

	return nil
}

func (r *sqlRosterRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS visitors_seq START 1;

		CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY DEFAULT nextval('visitors_seq'),
			locality VARCHAR NOT NULL,
			point POINT_2D NOT NULL,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT
		);

		CREATE TABLE IF NOT EXISTS loads (
			loop_idx INTEGER NOT NULL,
			label INTEGER NOT NULL,
			visitor_id INTEGER NOT NULL,
			UNIQUE(visitor_id)
		);
	`)

	return err
}

func (r *sqlRosterRepository) BulkInsertVisitors(visitors []*Visitor) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO visitors(locality, point, h3_res5, h3_res6, h3_res7)
		VALUES (?, ST_Point(?, ?), ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	for _, v := range visitors {
		if err = v.computeH3(); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}

		if _, err = stmt.Exec(
			v.Locality,
			v.Point.Lng,
			v.Point.Lat,
			v.H3Res5,
			v.H3Res6,
			v.H3Res7,
		); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

func (r *sqlRosterRepository) ListVisitors() ([]*Visitor, error) {
	rows, err := r.db.Query(`
		SELECT id, locality, point, h3_res5, h3_res6, h3_res7
		FROM visitors
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []*Visitor

	for rows.Next() {
		v := &Visitor{}

		var h3Res5, h3Res6, h3Res7 sql.NullInt64

		if err := rows.Scan(&v.ID, &v.Locality, &v.Point, &h3Res5, &h3Res6, &h3Res7); err != nil {
			return nil, err
		}

		if h3Res5.Valid {
			v.H3Res5 = h3Res5.Int64
		}

		if h3Res6.Valid {
			v.H3Res6 = h3Res6.Int64
		}

		if h3Res7.Valid {
			v.H3Res7 = h3Res7.Int64
		}

		visitors = append(visitors, v)
	}

	return visitors, rows.Err()
}

func (r *sqlRosterRepository) CountVisitors() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM visitors",
	).Scan(&count)

	return count, err
}

func (r *sqlRosterRepository) ClearVisitors() error {
	if _, err := r.db.Exec("DELETE FROM loads"); err != nil {
		return fmt.Errorf("clearing loads: %w", err)
	}

	if _, err := r.db.Exec("DELETE FROM visitors"); err != nil {
		return fmt.Errorf("clearing visitors: %w", err)
	}

	return nil
}

func (r *sqlRosterRepository) SaveAssignments(assignments []Assignment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM loads"); err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO loads(loop_idx, label, visitor_id)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err = stmt.Exec(a.Loop, a.Label, a.VisitorID); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

func (r *sqlRosterRepository) LoadSummaries() ([]*LoadSummary, error) {
	rows, err := r.db.Query(`
		SELECT l.loop_idx, l.label, COUNT(*),
		       AVG(ST_Y(v.point)), AVG(ST_X(v.point))
		FROM loads l
		JOIN visitors v ON v.id = l.visitor_id
		GROUP BY l.loop_idx, l.label
		ORDER BY l.loop_idx, l.label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*LoadSummary

	for rows.Next() {
		s := &LoadSummary{}
		if err := rows.Scan(&s.Loop, &s.Label, &s.Visitors, &s.Centroid.Lat, &s.Centroid.Lng); err != nil {
			return nil, err
		}

		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

var errInvalidH3Resolution = errors.New("roster: density resolution must be 5, 6 or 7")

func (r *sqlRosterRepository) DensityByH3(res int) ([]*DensityCell, error) {
	var column string

	switch res {
	case 5:
		column = "h3_res5"
	case 6:
		column = "h3_res6"
	case 7:
		column = "h3_res7"
	default:
		return nil, errInvalidH3Resolution
	}

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM visitors
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []*DensityCell

	for rows.Next() {
		c := &DensityCell{}
		if err := rows.Scan(&c.Cell, &c.Visitors); err != nil {
			return nil, err
		}

		cells = append(cells, c)
	}

	return cells, rows.Err()
}
