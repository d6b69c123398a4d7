// Package masterdata resolves provisioned inverter identities.
package masterdata

import (
	"context"
	"database/sql"
	"errors"
)

// ErrInverterNotFound reports a serial number with no provisioned inverter.
var ErrInverterNotFound = errors.New("masterdata: inverter not found")

// Inverter is one provisioned inverter.
type Inverter struct {
	ID         int64
	SerialNo   string
	ModuleSN   string
	Type       string
	SiteName   string
	Descriptor string
}

// InverterRepository looks up inverters in Postgres.
type InverterRepository struct {
	db *sql.DB
}

// NewInverterRepository constructs a repository.
func NewInverterRepository(db *sql.DB) *InverterRepository {
	return &InverterRepository{db: db}
}

// Provision registers an inverter for its provider serial number and returns
// the assigned id. Re-provisioning an existing serial updates the descriptive
// fields in place.
func (r *InverterRepository) Provision(ctx context.Context, inv Inverter) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("inverter repo: nil db")
	}
	if inv.SerialNo == "" {
		return 0, errors.New("inverter repo: empty serial")
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO master_inverters (inverter_sn, sn, inverter_type, site_name, description)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (inverter_sn) DO UPDATE SET
	sn = EXCLUDED.sn,
	inverter_type = EXCLUDED.inverter_type,
	site_name = EXCLUDED.site_name,
	description = EXCLUDED.description
RETURNING id`,
		inv.SerialNo, inv.ModuleSN, inv.Type, inv.SiteName, inv.Descriptor,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns every provisioned inverter ordered by id.
func (r *InverterRepository) List(ctx context.Context) ([]Inverter, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("inverter repo: nil db")
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, inverter_sn, COALESCE(sn, ''), COALESCE(inverter_type, ''), COALESCE(site_name, ''), COALESCE(description, '')
FROM master_inverters
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Inverter
	for rows.Next() {
		var inv Inverter
		if err := rows.Scan(&inv.ID, &inv.SerialNo, &inv.ModuleSN, &inv.Type, &inv.SiteName, &inv.Descriptor); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// FindByID loads one inverter by its id. Returns ErrInverterNotFound when no
// row matches.
func (r *InverterRepository) FindByID(ctx context.Context, id int64) (*Inverter, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("inverter repo: nil db")
	}

	row := r.db.QueryRowContext(ctx, `
SELECT id, inverter_sn, COALESCE(sn, ''), COALESCE(inverter_type, ''), COALESCE(site_name, ''), COALESCE(description, '')
FROM master_inverters
WHERE id = $1
LIMIT 1`, id)

	var inv Inverter
	if err := row.Scan(&inv.ID, &inv.SerialNo, &inv.ModuleSN, &inv.Type, &inv.SiteName, &inv.Descriptor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInverterNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindBySerial resolves the inverter provisioned for a provider serial
// number. Returns ErrInverterNotFound when no row matches.
func (r *InverterRepository) FindBySerial(ctx context.Context, serial string) (*Inverter, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("inverter repo: nil db")
	}
	if serial == "" {
		return nil, errors.New("inverter repo: empty serial")
	}

	row := r.db.QueryRowContext(ctx, `
SELECT id, inverter_sn, COALESCE(sn, ''), COALESCE(inverter_type, ''), COALESCE(site_name, ''), COALESCE(description, '')
FROM master_inverters
WHERE inverter_sn = $1
LIMIT 1`, serial)

	var inv Inverter
	if err := row.Scan(&inv.ID, &inv.SerialNo, &inv.ModuleSN, &inv.Type, &inv.SiteName, &inv.Descriptor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInverterNotFound
		}
		return nil, err
	}
	return &inv, nil
}
