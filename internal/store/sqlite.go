package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/vflor92/REanalyzer/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sites (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	address_line1      TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL DEFAULT '',
	state              TEXT NOT NULL DEFAULT '',
	zip                TEXT NOT NULL DEFAULT '',
	latitude           REAL,
	longitude          REAL,
	county             TEXT,
	ahj                TEXT,
	size_acres         REAL NOT NULL DEFAULT 0,
	size_sqft          REAL NOT NULL DEFAULT 0,
	ask_price_total    REAL NOT NULL DEFAULT 0,
	ask_price_per_sqft REAL NOT NULL DEFAULT 0,
	broker_name        TEXT,
	broker_company     TEXT,
	broker_email       TEXT,
	listing_url        TEXT,
	status             TEXT NOT NULL DEFAULT 'NEW',
	notes_internal     TEXT,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS site_constraints (
	site_id                       TEXT PRIMARY KEY REFERENCES sites(id) ON DELETE CASCADE,
	detention_required            BOOLEAN,
	detention_notes               TEXT,
	can_break_ground_after        DATETIME,
	zoning_type                   TEXT,
	deed_restrictions_text        TEXT,
	flood_zone_code               TEXT,
	flood_source                  TEXT,
	school_district_name          TEXT,
	school_district_rating_source TEXT,
	school_district_rating_value  TEXT
);

CREATE TABLE IF NOT EXISTS site_utilities (
	site_id                  TEXT PRIMARY KEY REFERENCES sites(id) ON DELETE CASCADE,
	water_provider           TEXT,
	sewer_provider           TEXT,
	mud_name                 TEXT,
	tax_rate_total           REAL,
	tax_rate_source_url      TEXT,
	tax_rate_last_checked_at DATETIME
);

CREATE TABLE IF NOT EXISTS site_demographics (
	id                      TEXT PRIMARY KEY,
	site_id                 TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	radius_miles            INTEGER NOT NULL,
	median_household_income INTEGER,
	population              INTEGER,
	source                  TEXT NOT NULL DEFAULT '',
	as_of_year              INTEGER NOT NULL DEFAULT 0,
	fallback                BOOLEAN NOT NULL DEFAULT 0,
	updated_at              DATETIME NOT NULL,
	UNIQUE (site_id, radius_miles)
);

CREATE TABLE IF NOT EXISTS site_program_flags (
	id                  TEXT PRIMARY KEY,
	site_id             TEXT NOT NULL UNIQUE REFERENCES sites(id) ON DELETE CASCADE,
	in_lihtc_qct        BOOLEAN NOT NULL DEFAULT 0,
	in_lihtc_dda        BOOLEAN NOT NULL DEFAULT 0,
	in_opportunity_zone BOOLEAN NOT NULL DEFAULT 0,
	source              TEXT NOT NULL DEFAULT '',
	fallback            BOOLEAN NOT NULL DEFAULT 0,
	last_checked_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
	id                     TEXT PRIMARY KEY,
	site_id                TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	scenario_type          TEXT NOT NULL,
	assumed_net_acres      REAL NOT NULL DEFAULT 0,
	assumed_units          INTEGER NOT NULL DEFAULT 0,
	density_units_per_acre REAL NOT NULL DEFAULT 0,
	land_price_per_door    REAL NOT NULL DEFAULT 0,
	status                 TEXT NOT NULL DEFAULT 'TODO',
	created_at             DATETIME NOT NULL,
	updated_at             DATETIME NOT NULL,
	UNIQUE (site_id, scenario_type)
);

CREATE TABLE IF NOT EXISTS rent_comps (
	id               TEXT PRIMARY KEY,
	site_id          TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	comp_name        TEXT NOT NULL,
	comp_type        TEXT,
	average_rent_psf REAL,
	rent_range_low   REAL,
	rent_range_high  REAL,
	distance_miles   REAL,
	notes            TEXT,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sites_status ON sites(status);
CREATE INDEX IF NOT EXISTS idx_sites_state_city ON sites(state, city);
CREATE INDEX IF NOT EXISTS idx_scenarios_site_id ON scenarios(site_id);
CREATE INDEX IF NOT EXISTS idx_rent_comps_site_id ON rent_comps(site_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSite(ctx context.Context, site *model.Site) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sites (id, name, address_line1, city, state, zip, latitude, longitude,
			county, ahj, size_acres, size_sqft, ask_price_total, ask_price_per_sqft,
			broker_name, broker_company, broker_email, listing_url, status, notes_internal,
			created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		site.ID, site.Name, site.AddressLine1, site.City, site.State, site.Zip,
		site.Latitude, site.Longitude, site.County, site.AHJ,
		site.SizeAcres, site.SizeSqFt, site.AskPriceTotal, site.AskPricePerSqFt,
		site.BrokerName, site.BrokerCompany, site.BrokerEmail, site.ListingURL,
		string(site.Status), site.NotesInternal, site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert site")
	}

	if site.Constraints != nil {
		if err := s.upsertConstraints(ctx, site.ID, site.Constraints); err != nil {
			return err
		}
	}
	if site.Utilities != nil {
		if err := s.upsertUtilities(ctx, site.ID, site.Utilities); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetSite(ctx context.Context, id string) (*model.Site, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, address_line1, city, state, zip, latitude, longitude,
			county, ahj, size_acres, size_sqft, ask_price_total, ask_price_per_sqft,
			broker_name, broker_company, broker_email, listing_url, status, notes_internal,
			created_at, updated_at
		 FROM sites WHERE id = ?`, id)

	var site model.Site
	var status string
	err := row.Scan(
		&site.ID, &site.Name, &site.AddressLine1, &site.City, &site.State, &site.Zip,
		&site.Latitude, &site.Longitude, &site.County, &site.AHJ,
		&site.SizeAcres, &site.SizeSqFt, &site.AskPriceTotal, &site.AskPricePerSqFt,
		&site.BrokerName, &site.BrokerCompany, &site.BrokerEmail, &site.ListingURL,
		&status, &site.NotesInternal, &site.CreatedAt, &site.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "site %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get site %s", id)
	}
	site.Status = model.SiteStatus(status)

	if err := s.loadSiteRelations(ctx, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *SQLiteStore) loadSiteRelations(ctx context.Context, site *model.Site) error {
	var c model.SiteConstraints
	err := s.db.QueryRowContext(ctx,
		`SELECT site_id, detention_required, detention_notes, can_break_ground_after,
			zoning_type, deed_restrictions_text, flood_zone_code, flood_source,
			school_district_name, school_district_rating_source, school_district_rating_value
		 FROM site_constraints WHERE site_id = ?`, site.ID,
	).Scan(
		&c.SiteID, &c.DetentionRequired, &c.DetentionNotes, &c.CanBreakGroundAfter,
		&c.ZoningType, &c.DeedRestrictionsText, &c.FloodZoneCode, &c.FloodSource,
		&c.SchoolDistrictName, &c.SchoolDistrictRatingSource, &c.SchoolDistrictRatingValue,
	)
	switch {
	case err == nil:
		site.Constraints = &c
	case !errors.Is(err, sql.ErrNoRows):
		return eris.Wrap(err, "sqlite: load constraints")
	}

	var u model.SiteUtilities
	err = s.db.QueryRowContext(ctx,
		`SELECT site_id, water_provider, sewer_provider, mud_name,
			tax_rate_total, tax_rate_source_url, tax_rate_last_checked_at
		 FROM site_utilities WHERE site_id = ?`, site.ID,
	).Scan(
		&u.SiteID, &u.WaterProvider, &u.SewerProvider, &u.MudName,
		&u.TaxRateTotal, &u.TaxRateSourceURL, &u.TaxRateLastCheckedAt,
	)
	switch {
	case err == nil:
		site.Utilities = &u
	case !errors.Is(err, sql.ErrNoRows):
		return eris.Wrap(err, "sqlite: load utilities")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, site_id, radius_miles, median_household_income, population,
			source, as_of_year, fallback, updated_at
		 FROM site_demographics WHERE site_id = ? ORDER BY radius_miles`, site.ID)
	if err != nil {
		return eris.Wrap(err, "sqlite: load demographics")
	}
	defer rows.Close()
	for rows.Next() {
		var d model.Demographics
		if err := rows.Scan(&d.ID, &d.SiteID, &d.RadiusMiles, &d.MedianHouseholdIncome,
			&d.Population, &d.Source, &d.AsOfYear, &d.Fallback, &d.UpdatedAt); err != nil {
			return eris.Wrap(err, "sqlite: scan demographics")
		}
		site.Demographics = append(site.Demographics, d)
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "sqlite: iterate demographics")
	}

	var f model.ProgramFlags
	err = s.db.QueryRowContext(ctx,
		`SELECT id, site_id, in_lihtc_qct, in_lihtc_dda, in_opportunity_zone,
			source, fallback, last_checked_at
		 FROM site_program_flags WHERE site_id = ?`, site.ID,
	).Scan(&f.ID, &f.SiteID, &f.InLihtcQct, &f.InLihtcDda, &f.InOpportunityZone,
		&f.Source, &f.Fallback, &f.LastCheckedAt)
	switch {
	case err == nil:
		site.ProgramFlags = &f
	case !errors.Is(err, sql.ErrNoRows):
		return eris.Wrap(err, "sqlite: load program flags")
	}

	return nil
}

func (s *SQLiteStore) ListSites(ctx context.Context, filter SiteFilter) (*SitePage, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.State != "" {
		where = append(where, "state = ?")
		args = append(args, filter.State)
	}
	if filter.City != "" {
		where = append(where, "city = ?")
		args = append(args, filter.City)
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM sites"+whereSQL, args...).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "sqlite: count sites")
	}

	sortCol, ok := siteSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT id, name, city, state, status, size_acres, ask_price_total, ask_price_per_sqft, created_at
		 FROM sites%s ORDER BY %s %s LIMIT ? OFFSET ?`, whereSQL, sortCol, order)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sites")
	}
	defer rows.Close()

	page := &SitePage{
		Data:  []model.SiteSummary{},
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for rows.Next() {
		var sm model.SiteSummary
		var status string
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.City, &sm.State, &status,
			&sm.SizeAcres, &sm.AskPriceTotal, &sm.AskPricePerSqFt, &sm.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan site summary")
		}
		sm.Status = model.SiteStatus(status)
		page.Data = append(page.Data, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate sites")
	}
	page.TotalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	return page, nil
}

func (s *SQLiteStore) UpdateSite(ctx context.Context, site *model.Site) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sites SET name=?, address_line1=?, city=?, state=?, zip=?,
			latitude=?, longitude=?, county=?, ahj=?,
			size_acres=?, size_sqft=?, ask_price_total=?, ask_price_per_sqft=?,
			broker_name=?, broker_company=?, broker_email=?, listing_url=?,
			status=?, notes_internal=?, updated_at=?
		 WHERE id=?`,
		site.Name, site.AddressLine1, site.City, site.State, site.Zip,
		site.Latitude, site.Longitude, site.County, site.AHJ,
		site.SizeAcres, site.SizeSqFt, site.AskPriceTotal, site.AskPricePerSqFt,
		site.BrokerName, site.BrokerCompany, site.BrokerEmail, site.ListingURL,
		string(site.Status), site.NotesInternal, site.UpdatedAt, site.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update site %s", site.ID)
	}
	if err := checkRowsAffected(res, "site", site.ID); err != nil {
		return err
	}

	if site.Constraints != nil {
		if err := s.upsertConstraints(ctx, site.ID, site.Constraints); err != nil {
			return err
		}
	}
	if site.Utilities != nil {
		if err := s.upsertUtilities(ctx, site.ID, site.Utilities); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) upsertConstraints(ctx context.Context, siteID string, c *model.SiteConstraints) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO site_constraints (site_id, detention_required, detention_notes,
			can_break_ground_after, zoning_type, deed_restrictions_text, flood_zone_code,
			flood_source, school_district_name, school_district_rating_source, school_district_rating_value)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT (site_id) DO UPDATE SET
			detention_required=excluded.detention_required,
			detention_notes=excluded.detention_notes,
			can_break_ground_after=excluded.can_break_ground_after,
			zoning_type=excluded.zoning_type,
			deed_restrictions_text=excluded.deed_restrictions_text,
			flood_zone_code=excluded.flood_zone_code,
			flood_source=excluded.flood_source,
			school_district_name=excluded.school_district_name,
			school_district_rating_source=excluded.school_district_rating_source,
			school_district_rating_value=excluded.school_district_rating_value`,
		siteID, c.DetentionRequired, c.DetentionNotes, c.CanBreakGroundAfter,
		c.ZoningType, c.DeedRestrictionsText, c.FloodZoneCode, c.FloodSource,
		c.SchoolDistrictName, c.SchoolDistrictRatingSource, c.SchoolDistrictRatingValue,
	)
	return eris.Wrap(err, "sqlite: upsert constraints")
}

func (s *SQLiteStore) upsertUtilities(ctx context.Context, siteID string, u *model.SiteUtilities) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO site_utilities (site_id, water_provider, sewer_provider, mud_name,
			tax_rate_total, tax_rate_source_url, tax_rate_last_checked_at)
		 VALUES (?,?,?,?,?,?,?)
		 ON CONFLICT (site_id) DO UPDATE SET
			water_provider=excluded.water_provider,
			sewer_provider=excluded.sewer_provider,
			mud_name=excluded.mud_name,
			tax_rate_total=excluded.tax_rate_total,
			tax_rate_source_url=excluded.tax_rate_source_url,
			tax_rate_last_checked_at=excluded.tax_rate_last_checked_at`,
		siteID, u.WaterProvider, u.SewerProvider, u.MudName,
		u.TaxRateTotal, u.TaxRateSourceURL, u.TaxRateLastCheckedAt,
	)
	return eris.Wrap(err, "sqlite: upsert utilities")
}

func (s *SQLiteStore) DeleteSite(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete site %s", id)
	}
	return checkRowsAffected(res, "site", id)
}

func (s *SQLiteStore) UpdateSiteCoordinates(ctx context.Context, id string, lat, lon float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sites SET latitude=?, longitude=?, updated_at=? WHERE id=?`,
		lat, lon, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update coordinates %s", id)
	}
	return checkRowsAffected(res, "site", id)
}

func (s *SQLiteStore) UpsertDemographics(ctx context.Context, d *model.Demographics) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO site_demographics (id, site_id, radius_miles, median_household_income,
			population, source, as_of_year, fallback, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?)
		 ON CONFLICT (site_id, radius_miles) DO UPDATE SET
			median_household_income=excluded.median_household_income,
			population=excluded.population,
			source=excluded.source,
			as_of_year=excluded.as_of_year,
			fallback=excluded.fallback,
			updated_at=excluded.updated_at`,
		d.ID, d.SiteID, d.RadiusMiles, d.MedianHouseholdIncome,
		d.Population, d.Source, d.AsOfYear, d.Fallback, d.UpdatedAt,
	)
	return eris.Wrap(err, "sqlite: upsert demographics")
}

func (s *SQLiteStore) UpsertProgramFlags(ctx context.Context, f *model.ProgramFlags) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO site_program_flags (id, site_id, in_lihtc_qct, in_lihtc_dda,
			in_opportunity_zone, source, fallback, last_checked_at)
		 VALUES (?,?,?,?,?,?,?,?)
		 ON CONFLICT (site_id) DO UPDATE SET
			in_lihtc_qct=excluded.in_lihtc_qct,
			in_lihtc_dda=excluded.in_lihtc_dda,
			in_opportunity_zone=excluded.in_opportunity_zone,
			source=excluded.source,
			fallback=excluded.fallback,
			last_checked_at=excluded.last_checked_at`,
		f.ID, f.SiteID, f.InLihtcQct, f.InLihtcDda,
		f.InOpportunityZone, f.Source, f.Fallback, f.LastCheckedAt,
	)
	return eris.Wrap(err, "sqlite: upsert program flags")
}

func (s *SQLiteStore) CreateScenario(ctx context.Context, sc *model.Scenario) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, site_id, scenario_type, assumed_net_acres, assumed_units,
			density_units_per_acre, land_price_per_door, status, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		sc.ID, sc.SiteID, string(sc.ScenarioType), sc.AssumedNetAcres, sc.AssumedUnits,
		sc.DensityUnitsPerAcre, sc.LandPricePerDoor, sc.Status, sc.CreatedAt, sc.UpdatedAt,
	)
	return eris.Wrap(err, "sqlite: insert scenario")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteScenario(row rowScanner) (*model.Scenario, error) {
	var sc model.Scenario
	var scenarioType string
	err := row.Scan(&sc.ID, &sc.SiteID, &scenarioType, &sc.AssumedNetAcres, &sc.AssumedUnits,
		&sc.DensityUnitsPerAcre, &sc.LandPricePerDoor, &sc.Status, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sc.ScenarioType = model.ScenarioType(scenarioType)
	return &sc, nil
}

const sqliteScenarioSelect = `SELECT id, site_id, scenario_type, assumed_net_acres, assumed_units,
	density_units_per_acre, land_price_per_door, status, created_at, updated_at FROM scenarios`

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (*model.Scenario, error) {
	sc, err := scanSQLiteScenario(s.db.QueryRowContext(ctx, sqliteScenarioSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "scenario %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get scenario %s", id)
	}
	return sc, nil
}

func (s *SQLiteStore) FindScenarioByType(ctx context.Context, siteID string, scenarioType model.ScenarioType) (*model.Scenario, error) {
	sc, err := scanSQLiteScenario(s.db.QueryRowContext(ctx,
		sqliteScenarioSelect+` WHERE site_id = ? AND scenario_type = ?`, siteID, string(scenarioType)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "scenario %s for site %s", scenarioType, siteID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find scenario by type")
	}
	return sc, nil
}

func (s *SQLiteStore) ListScenarios(ctx context.Context, siteID string) ([]model.Scenario, error) {
	rows, err := s.db.QueryContext(ctx, sqliteScenarioSelect+` WHERE site_id = ? ORDER BY scenario_type`, siteID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scenarios")
	}
	defer rows.Close()

	out := []model.Scenario{}
	for rows.Next() {
		sc, err := scanSQLiteScenario(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan scenario")
		}
		out = append(out, *sc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate scenarios")
}

func (s *SQLiteStore) UpdateScenarioMetrics(ctx context.Context, sc *model.Scenario) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scenarios SET assumed_net_acres=?, assumed_units=?,
			density_units_per_acre=?, land_price_per_door=?, status=?, updated_at=?
		 WHERE id=?`,
		sc.AssumedNetAcres, sc.AssumedUnits, sc.DensityUnitsPerAcre,
		sc.LandPricePerDoor, sc.Status, sc.UpdatedAt, sc.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update scenario %s", sc.ID)
	}
	return checkRowsAffected(res, "scenario", sc.ID)
}

const sqliteRentCompSelect = `SELECT id, site_id, comp_name, comp_type, average_rent_psf,
	rent_range_low, rent_range_high, distance_miles, notes, created_at, updated_at FROM rent_comps`

func (s *SQLiteStore) CreateRentComp(ctx context.Context, rc *model.RentComp) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rent_comps (id, site_id, comp_name, comp_type, average_rent_psf,
			rent_range_low, rent_range_high, distance_miles, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rc.ID, rc.SiteID, rc.CompName, rc.CompType, rc.AverageRentPsf,
		rc.RentRangeLow, rc.RentRangeHigh, rc.DistanceMiles, rc.Notes,
		rc.CreatedAt, rc.UpdatedAt,
	)
	return eris.Wrap(err, "sqlite: insert rent comp")
}

func scanSQLiteRentComp(row rowScanner) (*model.RentComp, error) {
	var rc model.RentComp
	err := row.Scan(&rc.ID, &rc.SiteID, &rc.CompName, &rc.CompType, &rc.AverageRentPsf,
		&rc.RentRangeLow, &rc.RentRangeHigh, &rc.DistanceMiles, &rc.Notes,
		&rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (s *SQLiteStore) GetRentComp(ctx context.Context, id string) (*model.RentComp, error) {
	rc, err := scanSQLiteRentComp(s.db.QueryRowContext(ctx, sqliteRentCompSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "rent comp %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get rent comp %s", id)
	}
	return rc, nil
}

func (s *SQLiteStore) ListRentComps(ctx context.Context, siteID string) ([]model.RentComp, error) {
	rows, err := s.db.QueryContext(ctx, sqliteRentCompSelect+` WHERE site_id = ? ORDER BY distance_miles IS NULL, distance_miles, created_at`, siteID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list rent comps")
	}
	defer rows.Close()

	out := []model.RentComp{}
	for rows.Next() {
		rc, err := scanSQLiteRentComp(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rent comp")
		}
		out = append(out, *rc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate rent comps")
}

func (s *SQLiteStore) UpdateRentComp(ctx context.Context, rc *model.RentComp) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rent_comps SET comp_name=?, comp_type=?, average_rent_psf=?,
			rent_range_low=?, rent_range_high=?, distance_miles=?, notes=?, updated_at=?
		 WHERE id=?`,
		rc.CompName, rc.CompType, rc.AverageRentPsf,
		rc.RentRangeLow, rc.RentRangeHigh, rc.DistanceMiles, rc.Notes, rc.UpdatedAt, rc.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update rent comp %s", rc.ID)
	}
	return checkRowsAffected(res, "rent comp", rc.ID)
}

func (s *SQLiteStore) DeleteRentComp(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rent_comps WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete rent comp %s", id)
	}
	return checkRowsAffected(res, "rent comp", id)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(model.ErrNotFound, "%s %s", entity, id)
	}
	return nil
}
