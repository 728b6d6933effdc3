package database

import (
	"context"
	"strings"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// Locations returns the location lookup rows ordered by city.
func (d *DBinstanceStruct) Locations(ctx context.Context) ([]model.Location, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var locs []model.Location
	err := q.Order("city ASC, state ASC").Find(&locs).Error
	return locs, translate(err)
}

// Industries returns the industry lookup rows ordered by name.
func (d *DBinstanceStruct) Industries(ctx context.Context) ([]model.Industry, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var inds []model.Industry
	err := q.Order("name ASC").Find(&inds).Error
	return inds, translate(err)
}

// EnsureLocation inserts the location unless it already exists.
// A unique violation counts as success.
func (d *DBinstanceStruct) EnsureLocation(ctx context.Context, city, state string) error {
	city, state = strings.TrimSpace(city), strings.TrimSpace(state)
	if city == "" || state == "" {
		return nil
	}
	q, cancel := d.query(ctx)
	defer cancel()

	err := q.Create(&model.Location{City: city, State: state}).Error
	if IsUniqueViolation(err) {
		return nil
	}
	return translate(err)
}

// EnsureIndustry inserts the industry unless it already exists.
// A unique violation counts as success.
func (d *DBinstanceStruct) EnsureIndustry(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	q, cancel := d.query(ctx)
	defer cancel()

	err := q.Create(&model.Industry{Name: name}).Error
	if IsUniqueViolation(err) {
		return nil
	}
	return translate(err)
}
