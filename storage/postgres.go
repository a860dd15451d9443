package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cari_magang/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

const internshipColumns = `id, api_id, title, organization, organization_url, organization_logo,
	address_country, address_locality, address_region, latitude, longitude,
	employment_type, seniority, url, external_apply_url, direct_apply,
	date_posted, date_created, date_validthrough,
	source_type, source, source_domain, remote_derived,
	cities_derived, regions_derived, countries_derived, locations_derived, created_at`

func scanInternship(row pgx.Row) (*models.Internship, error) {
	var in models.Internship
	err := row.Scan(
		&in.ID, &in.APIID, &in.Title, &in.Organization, &in.OrganizationURL, &in.OrganizationLogo,
		&in.AddressCountry, &in.AddressLocality, &in.AddressRegion, &in.Latitude, &in.Longitude,
		&in.EmploymentType, &in.Seniority, &in.URL, &in.ExternalApplyURL, &in.DirectApply,
		&in.DatePosted, &in.DateCreated, &in.DateValidThrough,
		&in.SourceType, &in.Source, &in.SourceDomain, &in.RemoteDerived,
		&in.CitiesDerived, &in.RegionsDerived, &in.CountriesDerived, &in.LocationsDerived, &in.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// =============================================================================
// Internships — sync pipeline writes
// =============================================================================

// PersistInternships saves a batch inside a single transaction, in input
// order. A record whose api_id already exists is skipped, never updated.
// The ON CONFLICT DO NOTHING backstop covers the race with a concurrent sync
// run: losing that race counts as a skip, not a failure. Any other error
// rolls back the whole batch.
func (s *PostgresStore) PersistInternships(ctx context.Context, batch []models.Internship) (saved, skipped int, err error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, in := range batch {
		var existingID int64
		err := tx.QueryRow(ctx, `SELECT id FROM internships WHERE api_id = $1`, in.APIID).Scan(&existingID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("lookup %s: %w", in.APIID, err)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO internships (
				api_id, title, organization, organization_url, organization_logo,
				address_country, address_locality, address_region, latitude, longitude,
				employment_type, seniority, url, external_apply_url, direct_apply,
				date_posted, date_created, date_validthrough,
				source_type, source, source_domain, remote_derived,
				cities_derived, regions_derived, countries_derived, locations_derived
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
			)
			ON CONFLICT (api_id) DO NOTHING`,
			in.APIID, in.Title, in.Organization, in.OrganizationURL, in.OrganizationLogo,
			in.AddressCountry, in.AddressLocality, in.AddressRegion, in.Latitude, in.Longitude,
			in.EmploymentType, in.Seniority, in.URL, in.ExternalApplyURL, in.DirectApply,
			in.DatePosted, in.DateCreated, in.DateValidThrough,
			in.SourceType, in.Source, in.SourceDomain, in.RemoteDerived,
			in.CitiesDerived, in.RegionsDerived, in.CountriesDerived, in.LocationsDerived,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("insert %s: %w", in.APIID, err)
		}

		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			saved++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}

	return saved, skipped, nil
}

// =============================================================================
// Internships — reads
// =============================================================================

func (s *PostgresStore) GetInternshipByID(ctx context.Context, id int64) (*models.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE id = $1`

	in, err := scanInternship(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (s *PostgresStore) GetInternshipByAPIID(ctx context.Context, apiID string) (*models.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE api_id = $1`

	in, err := scanInternship(s.pool.QueryRow(ctx, query, apiID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

// ListInternships returns one page of listings plus the unpaginated total.
func (s *PostgresStore) ListInternships(ctx context.Context, f models.ListFilters) ([]models.Internship, int64, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR organization ILIKE %s)", p, p))
	}
	if f.Location != "" {
		p := arg("%" + f.Location + "%")
		conds = append(conds, fmt.Sprintf(
			"(address_locality ILIKE %s OR address_region ILIKE %s OR address_country ILIKE %s)", p, p, p))
	}
	if f.Organization != "" {
		conds = append(conds, fmt.Sprintf("organization ILIKE %s", arg("%"+f.Organization+"%")))
	}
	if f.EmploymentType != "" {
		conds = append(conds, fmt.Sprintf("employment_type ILIKE %s", arg("%"+f.EmploymentType+"%")))
	}
	if f.Remote != nil {
		conds = append(conds, fmt.Sprintf("remote_derived = %s", arg(*f.Remote)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + joinAnd(conds)
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM internships`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := `SELECT ` + internshipColumns + ` FROM internships` + where +
		fmt.Sprintf(" ORDER BY date_posted DESC NULLS LAST LIMIT %s OFFSET %s",
			arg(limit), arg((page-1)*limit))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var internships []models.Internship
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, 0, err
		}
		internships = append(internships, *in)
	}
	return internships, total, rows.Err()
}

// PopularInternships returns the most recently posted listings.
func (s *PostgresStore) PopularInternships(ctx context.Context, limit int) ([]models.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships
		ORDER BY date_posted DESC NULLS LAST
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var internships []models.Internship
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		internships = append(internships, *in)
	}
	return internships, rows.Err()
}

// ListOrganizations returns the distinct organizations with their job counts,
// for the organizations dropdown.
func (s *PostgresStore) ListOrganizations(ctx context.Context) ([]models.OrganizationSummary, error) {
	query := `
		SELECT organization, MAX(organization_logo) AS organization_logo, COUNT(*) AS job_count
		FROM internships
		WHERE organization IS NOT NULL AND organization != ''
		GROUP BY organization
		ORDER BY organization ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []models.OrganizationSummary
	for rows.Next() {
		var o models.OrganizationSummary
		if err := rows.Scan(&o.Organization, &o.OrganizationLogo, &o.JobCount); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// =============================================================================
// Stats
// =============================================================================

func (s *PostgresStore) StatsSummary(ctx context.Context) (models.StatsSummary, error) {
	var out models.StatsSummary

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM internships`).Scan(&out.TotalJobs); err != nil {
		return out, fmt.Errorf("total: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT address_country, COUNT(*) AS count
		FROM internships
		WHERE address_country IS NOT NULL
		GROUP BY address_country
		ORDER BY count DESC
		LIMIT 5`)
	if err != nil {
		return out, fmt.Errorf("by country: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.CountryCount
		if err := rows.Scan(&c.AddressCountry, &c.Count); err != nil {
			return out, err
		}
		out.JobsByCountry = append(out.JobsByCountry, c)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT COALESCE(organization, ''), COUNT(*) AS count
		FROM internships
		GROUP BY organization
		ORDER BY count DESC
		LIMIT 5`)
	if err != nil {
		return out, fmt.Errorf("by organization: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o models.OrganizationCount
		if err := rows.Scan(&o.Organization, &o.Count); err != nil {
			return out, err
		}
		out.JobsByOrganization = append(out.JobsByOrganization, o)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT remote_derived, COUNT(*) AS count
		FROM internships
		GROUP BY remote_derived`)
	if err != nil {
		return out, fmt.Errorf("remote split: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r models.RemoteCount
		if err := rows.Scan(&r.RemoteDerived, &r.Count); err != nil {
			return out, err
		}
		out.RemoteStats = append(out.RemoteStats, r)
	}
	return out, rows.Err()
}

// =============================================================================
// Sync runs
// =============================================================================

func (s *PostgresStore) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_runs (id, triggered_by, started_at, status)
		VALUES ($1, $2, $3, $4)`,
		run.ID, run.Trigger, run.StartedAt, run.Status,
	)
	return err
}

func (s *PostgresStore) UpdateSyncRun(ctx context.Context, run *models.SyncRun) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE sync_runs SET
			finished_at = $2, status = $3, fetched_count = $4, discarded_count = $5,
			saved_count = $6, skipped_count = $7, error_message = $8
		WHERE id = $1`,
		run.ID, run.FinishedAt, run.Status, run.FetchedCount, run.DiscardedCount,
		run.SavedCount, run.SkippedCount, run.ErrorMessage,
	)
	return err
}

func joinAnd(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
