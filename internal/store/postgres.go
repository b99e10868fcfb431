package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/vflor92/REanalyzer/internal/model"
)

// Pool abstracts the pgxpool methods the store uses so tests can swap in
// pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sites (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	address_line1      TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL DEFAULT '',
	state              TEXT NOT NULL DEFAULT '',
	zip                TEXT NOT NULL DEFAULT '',
	latitude           DOUBLE PRECISION,
	longitude          DOUBLE PRECISION,
	county             TEXT,
	ahj                TEXT,
	size_acres         DOUBLE PRECISION NOT NULL DEFAULT 0,
	size_sqft          DOUBLE PRECISION NOT NULL DEFAULT 0,
	ask_price_total    DOUBLE PRECISION NOT NULL DEFAULT 0,
	ask_price_per_sqft DOUBLE PRECISION NOT NULL DEFAULT 0,
	broker_name        TEXT,
	broker_company     TEXT,
	broker_email       TEXT,
	listing_url        TEXT,
	status             TEXT NOT NULL DEFAULT 'NEW',
	notes_internal     TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS site_constraints (
	site_id                       TEXT PRIMARY KEY REFERENCES sites(id) ON DELETE CASCADE,
	detention_required            BOOLEAN,
	detention_notes               TEXT,
	can_break_ground_after        TIMESTAMPTZ,
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
	tax_rate_total           DOUBLE PRECISION,
	tax_rate_source_url      TEXT,
	tax_rate_last_checked_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS site_demographics (
	id                      TEXT PRIMARY KEY,
	site_id                 TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	radius_miles            INTEGER NOT NULL,
	median_household_income INTEGER,
	population              INTEGER,
	source                  TEXT NOT NULL DEFAULT '',
	as_of_year              INTEGER NOT NULL DEFAULT 0,
	fallback                BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (site_id, radius_miles)
);

CREATE TABLE IF NOT EXISTS site_program_flags (
	id                  TEXT PRIMARY KEY,
	site_id             TEXT NOT NULL UNIQUE REFERENCES sites(id) ON DELETE CASCADE,
	in_lihtc_qct        BOOLEAN NOT NULL DEFAULT FALSE,
	in_lihtc_dda        BOOLEAN NOT NULL DEFAULT FALSE,
	in_opportunity_zone BOOLEAN NOT NULL DEFAULT FALSE,
	source              TEXT NOT NULL DEFAULT '',
	fallback            BOOLEAN NOT NULL DEFAULT FALSE,
	last_checked_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scenarios (
	id                     TEXT PRIMARY KEY,
	site_id                TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	scenario_type          TEXT NOT NULL,
	assumed_net_acres      DOUBLE PRECISION NOT NULL DEFAULT 0,
	assumed_units          INTEGER NOT NULL DEFAULT 0,
	density_units_per_acre DOUBLE PRECISION NOT NULL DEFAULT 0,
	land_price_per_door    DOUBLE PRECISION NOT NULL DEFAULT 0,
	status                 TEXT NOT NULL DEFAULT 'TODO',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (site_id, scenario_type)
);

CREATE TABLE IF NOT EXISTS rent_comps (
	id               TEXT PRIMARY KEY,
	site_id          TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	comp_name        TEXT NOT NULL,
	comp_type        TEXT,
	average_rent_psf DOUBLE PRECISION,
	rent_range_low   DOUBLE PRECISION,
	rent_range_high  DOUBLE PRECISION,
	distance_miles   DOUBLE PRECISION,
	notes            TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sites_status ON sites(status);
CREATE INDEX IF NOT EXISTS idx_sites_state_city ON sites(state, city);
CREATE INDEX IF NOT EXISTS idx_scenarios_site_id ON scenarios(site_id);
CREATE INDEX IF NOT EXISTS idx_rent_comps_site_id ON rent_comps(site_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const siteColumns = `id, name, address_line1, city, state, zip, latitude, longitude,
	county, ahj, size_acres, size_sqft, ask_price_total, ask_price_per_sqft,
	broker_name, broker_company, broker_email, listing_url, status, notes_internal,
	created_at, updated_at`

func (s *PostgresStore) CreateSite(ctx context.Context, site *model.Site) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sites (`+siteColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		site.ID, site.Name, site.AddressLine1, site.City, site.State, site.Zip,
		site.Latitude, site.Longitude, site.County, site.AHJ,
		site.SizeAcres, site.SizeSqFt, site.AskPriceTotal, site.AskPricePerSqFt,
		site.BrokerName, site.BrokerCompany, site.BrokerEmail, site.ListingURL,
		string(site.Status), site.NotesInternal, site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert site")
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

func (s *PostgresStore) GetSite(ctx context.Context, id string) (*model.Site, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id)

	var site model.Site
	var status string
	err := row.Scan(
		&site.ID, &site.Name, &site.AddressLine1, &site.City, &site.State, &site.Zip,
		&site.Latitude, &site.Longitude, &site.County, &site.AHJ,
		&site.SizeAcres, &site.SizeSqFt, &site.AskPriceTotal, &site.AskPricePerSqFt,
		&site.BrokerName, &site.BrokerCompany, &site.BrokerEmail, &site.ListingURL,
		&status, &site.NotesInternal, &site.CreatedAt, &site.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "site %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get site %s", id)
	}
	site.Status = model.SiteStatus(status)

	if err := s.loadSiteRelations(ctx, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *PostgresStore) loadSiteRelations(ctx context.Context, site *model.Site) error {
	var c model.SiteConstraints
	err := s.pool.QueryRow(ctx,
		`SELECT site_id, detention_required, detention_notes, can_break_ground_after,
			zoning_type, deed_restrictions_text, flood_zone_code, flood_source,
			school_district_name, school_district_rating_source, school_district_rating_value
		 FROM site_constraints WHERE site_id = $1`, site.ID,
	).Scan(
		&c.SiteID, &c.DetentionRequired, &c.DetentionNotes, &c.CanBreakGroundAfter,
		&c.ZoningType, &c.DeedRestrictionsText, &c.FloodZoneCode, &c.FloodSource,
		&c.SchoolDistrictName, &c.SchoolDistrictRatingSource, &c.SchoolDistrictRatingValue,
	)
	switch {
	case err == nil:
		site.Constraints = &c
	case !errors.Is(err, pgx.ErrNoRows):
		return eris.Wrap(err, "postgres: load constraints")
	}

	var u model.SiteUtilities
	err = s.pool.QueryRow(ctx,
		`SELECT site_id, water_provider, sewer_provider, mud_name,
			tax_rate_total, tax_rate_source_url, tax_rate_last_checked_at
		 FROM site_utilities WHERE site_id = $1`, site.ID,
	).Scan(
		&u.SiteID, &u.WaterProvider, &u.SewerProvider, &u.MudName,
		&u.TaxRateTotal, &u.TaxRateSourceURL, &u.TaxRateLastCheckedAt,
	)
	switch {
	case err == nil:
		site.Utilities = &u
	case !errors.Is(err, pgx.ErrNoRows):
		return eris.Wrap(err, "postgres: load utilities")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, site_id, radius_miles, median_household_income, population,
			source, as_of_year, fallback, updated_at
		 FROM site_demographics WHERE site_id = $1 ORDER BY radius_miles`, site.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: load demographics")
	}
	defer rows.Close()
	for rows.Next() {
		var d model.Demographics
		if err := rows.Scan(&d.ID, &d.SiteID, &d.RadiusMiles, &d.MedianHouseholdIncome,
			&d.Population, &d.Source, &d.AsOfYear, &d.Fallback, &d.UpdatedAt); err != nil {
			return eris.Wrap(err, "postgres: scan demographics")
		}
		site.Demographics = append(site.Demographics, d)
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "postgres: iterate demographics")
	}

	var f model.ProgramFlags
	err = s.pool.QueryRow(ctx,
		`SELECT id, site_id, in_lihtc_qct, in_lihtc_dda, in_opportunity_zone,
			source, fallback, last_checked_at
		 FROM site_program_flags WHERE site_id = $1`, site.ID,
	).Scan(&f.ID, &f.SiteID, &f.InLihtcQct, &f.InLihtcDda, &f.InOpportunityZone,
		&f.Source, &f.Fallback, &f.LastCheckedAt)
	switch {
	case err == nil:
		site.ProgramFlags = &f
	case !errors.Is(err, pgx.ErrNoRows):
		return eris.Wrap(err, "postgres: load program flags")
	}

	return nil
}

var siteSortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"name":          "name",
	"askPriceTotal": "ask_price_total",
	"sizeAcres":     "size_acres",
}

func (s *PostgresStore) ListSites(ctx context.Context, filter SiteFilter) (*SitePage, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		where = append(where, fmt.Sprintf("city = $%d", len(args)))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM sites"+whereSQL, args...).Scan(&total); err != nil {
		return nil, eris.Wrap(err, "postgres: count sites")
	}

	sortCol, ok := siteSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(
		`SELECT id, name, city, state, status, size_acres, ask_price_total, ask_price_per_sqft, created_at
		 FROM sites%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		whereSQL, sortCol, order, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sites")
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
			return nil, eris.Wrap(err, "postgres: scan site summary")
		}
		sm.Status = model.SiteStatus(status)
		page.Data = append(page.Data, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate sites")
	}
	page.TotalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	return page, nil
}

func (s *PostgresStore) UpdateSite(ctx context.Context, site *model.Site) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sites SET name=$1, address_line1=$2, city=$3, state=$4, zip=$5,
			latitude=$6, longitude=$7, county=$8, ahj=$9,
			size_acres=$10, size_sqft=$11, ask_price_total=$12, ask_price_per_sqft=$13,
			broker_name=$14, broker_company=$15, broker_email=$16, listing_url=$17,
			status=$18, notes_internal=$19, updated_at=$20
		 WHERE id=$21`,
		site.Name, site.AddressLine1, site.City, site.State, site.Zip,
		site.Latitude, site.Longitude, site.County, site.AHJ,
		site.SizeAcres, site.SizeSqFt, site.AskPriceTotal, site.AskPricePerSqFt,
		site.BrokerName, site.BrokerCompany, site.BrokerEmail, site.ListingURL,
		string(site.Status), site.NotesInternal, site.UpdatedAt, site.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update site %s", site.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "site %s", site.ID)
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

func (s *PostgresStore) upsertConstraints(ctx context.Context, siteID string, c *model.SiteConstraints) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO site_constraints (site_id, detention_required, detention_notes,
			can_break_ground_after, zoning_type, deed_restrictions_text, flood_zone_code,
			flood_source, school_district_name, school_district_rating_source, school_district_rating_value)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (site_id) DO UPDATE SET
			detention_required=EXCLUDED.detention_required,
			detention_notes=EXCLUDED.detention_notes,
			can_break_ground_after=EXCLUDED.can_break_ground_after,
			zoning_type=EXCLUDED.zoning_type,
			deed_restrictions_text=EXCLUDED.deed_restrictions_text,
			flood_zone_code=EXCLUDED.flood_zone_code,
			flood_source=EXCLUDED.flood_source,
			school_district_name=EXCLUDED.school_district_name,
			school_district_rating_source=EXCLUDED.school_district_rating_source,
			school_district_rating_value=EXCLUDED.school_district_rating_value`,
		siteID, c.DetentionRequired, c.DetentionNotes, c.CanBreakGroundAfter,
		c.ZoningType, c.DeedRestrictionsText, c.FloodZoneCode, c.FloodSource,
		c.SchoolDistrictName, c.SchoolDistrictRatingSource, c.SchoolDistrictRatingValue,
	)
	return eris.Wrap(err, "postgres: upsert constraints")
}

func (s *PostgresStore) upsertUtilities(ctx context.Context, siteID string, u *model.SiteUtilities) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO site_utilities (site_id, water_provider, sewer_provider, mud_name,
			tax_rate_total, tax_rate_source_url, tax_rate_last_checked_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (site_id) DO UPDATE SET
			water_provider=EXCLUDED.water_provider,
			sewer_provider=EXCLUDED.sewer_provider,
			mud_name=EXCLUDED.mud_name,
			tax_rate_total=EXCLUDED.tax_rate_total,
			tax_rate_source_url=EXCLUDED.tax_rate_source_url,
			tax_rate_last_checked_at=EXCLUDED.tax_rate_last_checked_at`,
		siteID, u.WaterProvider, u.SewerProvider, u.MudName,
		u.TaxRateTotal, u.TaxRateSourceURL, u.TaxRateLastCheckedAt,
	)
	return eris.Wrap(err, "postgres: upsert utilities")
}

func (s *PostgresStore) DeleteSite(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete site %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "site %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateSiteCoordinates(ctx context.Context, id string, lat, lon float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sites SET latitude=$1, longitude=$2, updated_at=$3 WHERE id=$4`,
		lat, lon, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update coordinates %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "site %s", id)
	}
	return nil
}

func (s *PostgresStore) UpsertDemographics(ctx context.Context, d *model.Demographics) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO site_demographics (id, site_id, radius_miles, median_household_income,
			population, source, as_of_year, fallback, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (site_id, radius_miles) DO UPDATE SET
			median_household_income=EXCLUDED.median_household_income,
			population=EXCLUDED.population,
			source=EXCLUDED.source,
			as_of_year=EXCLUDED.as_of_year,
			fallback=EXCLUDED.fallback,
			updated_at=EXCLUDED.updated_at`,
		d.ID, d.SiteID, d.RadiusMiles, d.MedianHouseholdIncome,
		d.Population, d.Source, d.AsOfYear, d.Fallback, d.UpdatedAt,
	)
	return eris.Wrap(err, "postgres: upsert demographics")
}

func (s *PostgresStore) UpsertProgramFlags(ctx context.Context, f *model.ProgramFlags) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO site_program_flags (id, site_id, in_lihtc_qct, in_lihtc_dda,
			in_opportunity_zone, source, fallback, last_checked_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (site_id) DO UPDATE SET
			in_lihtc_qct=EXCLUDED.in_lihtc_qct,
			in_lihtc_dda=EXCLUDED.in_lihtc_dda,
			in_opportunity_zone=EXCLUDED.in_opportunity_zone,
			source=EXCLUDED.source,
			fallback=EXCLUDED.fallback,
			last_checked_at=EXCLUDED.last_checked_at`,
		f.ID, f.SiteID, f.InLihtcQct, f.InLihtcDda,
		f.InOpportunityZone, f.Source, f.Fallback, f.LastCheckedAt,
	)
	return eris.Wrap(err, "postgres: upsert program flags")
}

const scenarioColumns = `id, site_id, scenario_type, assumed_net_acres, assumed_units,
	density_units_per_acre, land_price_per_door, status, created_at, updated_at`

func (s *PostgresStore) CreateScenario(ctx context.Context, sc *model.Scenario) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scenarios (`+scenarioColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		sc.ID, sc.SiteID, string(sc.ScenarioType), sc.AssumedNetAcres, sc.AssumedUnits,
		sc.DensityUnitsPerAcre, sc.LandPricePerDoor, sc.Status, sc.CreatedAt, sc.UpdatedAt,
	)
	return eris.Wrap(err, "postgres: insert scenario")
}

func (s *PostgresStore) scanScenario(row pgx.Row) (*model.Scenario, error) {
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

func (s *PostgresStore) GetScenario(ctx context.Context, id string) (*model.Scenario, error) {
	sc, err := s.scanScenario(s.pool.QueryRow(ctx,
		`SELECT `+scenarioColumns+` FROM scenarios WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "scenario %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get scenario %s", id)
	}
	return sc, nil
}

func (s *PostgresStore) FindScenarioByType(ctx context.Context, siteID string, scenarioType model.ScenarioType) (*model.Scenario, error) {
	sc, err := s.scanScenario(s.pool.QueryRow(ctx,
		`SELECT `+scenarioColumns+` FROM scenarios WHERE site_id = $1 AND scenario_type = $2`,
		siteID, string(scenarioType)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "scenario %s for site %s", scenarioType, siteID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find scenario by type")
	}
	return sc, nil
}

func (s *PostgresStore) ListScenarios(ctx context.Context, siteID string) ([]model.Scenario, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+scenarioColumns+` FROM scenarios WHERE site_id = $1 ORDER BY scenario_type`, siteID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scenarios")
	}
	defer rows.Close()

	out := []model.Scenario{}
	for rows.Next() {
		sc, err := s.scanScenario(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan scenario")
		}
		out = append(out, *sc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate scenarios")
}

func (s *PostgresStore) UpdateScenarioMetrics(ctx context.Context, sc *model.Scenario) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE scenarios SET assumed_net_acres=$1, assumed_units=$2,
			density_units_per_acre=$3, land_price_per_door=$4, status=$5, updated_at=$6
		 WHERE id=$7`,
		sc.AssumedNetAcres, sc.AssumedUnits, sc.DensityUnitsPerAcre,
		sc.LandPricePerDoor, sc.Status, sc.UpdatedAt, sc.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update scenario %s", sc.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "scenario %s", sc.ID)
	}
	return nil
}

const rentCompColumns = `id, site_id, comp_name, comp_type, average_rent_psf,
	rent_range_low, rent_range_high, distance_miles, notes, created_at, updated_at`

func (s *PostgresStore) CreateRentComp(ctx context.Context, rc *model.RentComp) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rent_comps (`+rentCompColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rc.ID, rc.SiteID, rc.CompName, rc.CompType, rc.AverageRentPsf,
		rc.RentRangeLow, rc.RentRangeHigh, rc.DistanceMiles, rc.Notes,
		rc.CreatedAt, rc.UpdatedAt,
	)
	return eris.Wrap(err, "postgres: insert rent comp")
}

func scanRentComp(row pgx.Row) (*model.RentComp, error) {
	var rc model.RentComp
	err := row.Scan(&rc.ID, &rc.SiteID, &rc.CompName, &rc.CompType, &rc.AverageRentPsf,
		&rc.RentRangeLow, &rc.RentRangeHigh, &rc.DistanceMiles, &rc.Notes,
		&rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (s *PostgresStore) GetRentComp(ctx context.Context, id string) (*model.RentComp, error) {
	rc, err := scanRentComp(s.pool.QueryRow(ctx,
		`SELECT `+rentCompColumns+` FROM rent_comps WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "rent comp %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get rent comp %s", id)
	}
	return rc, nil
}

func (s *PostgresStore) ListRentComps(ctx context.Context, siteID string) ([]model.RentComp, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+rentCompColumns+` FROM rent_comps WHERE site_id = $1 ORDER BY distance_miles NULLS LAST, created_at`, siteID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list rent comps")
	}
	defer rows.Close()

	out := []model.RentComp{}
	for rows.Next() {
		rc, err := scanRentComp(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan rent comp")
		}
		out = append(out, *rc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate rent comps")
}

func (s *PostgresStore) UpdateRentComp(ctx context.Context, rc *model.RentComp) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE rent_comps SET comp_name=$1, comp_type=$2, average_rent_psf=$3,
			rent_range_low=$4, rent_range_high=$5, distance_miles=$6, notes=$7, updated_at=$8
		 WHERE id=$9`,
		rc.CompName, rc.CompType, rc.AverageRentPsf,
		rc.RentRangeLow, rc.RentRangeHigh, rc.DistanceMiles, rc.Notes, rc.UpdatedAt, rc.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update rent comp %s", rc.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "rent comp %s", rc.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteRentComp(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rent_comps WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete rent comp %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "rent comp %s", id)
	}
	return nil
}
