package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"real-estate-listings/internal/models"
)

// propertyColumns is the full persisted column list, in insert order.
const propertyColumns = `title, description, address, city, state, zip_code,
	latitude, longitude, square_feet, bedrooms, bathrooms, floors,
	price, price_per_sqft, monthly_rent, property_taxes,
	property_type, status, year_built, lot_size, garage_spaces,
	has_basement, has_pool, has_garden, features, metadata, user_id`

// PostgresStore is the PostgreSQL-backed Store implementation.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(host, port, user, password, dbname string) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing sqlx.DB instance.
func NewPostgresStoreFromDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates the users and properties tables if they don't exist.
func (s *PostgresStore) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS properties (
		id SERIAL PRIMARY KEY,

		title VARCHAR(255),
		description TEXT,
		address VARCHAR(255),
		city VARCHAR(100),
		state VARCHAR(50),
		zip_code VARCHAR(20),
		latitude DECIMAL(10, 8),
		longitude DECIMAL(11, 8),

		square_feet INTEGER,
		bedrooms INTEGER,
		bathrooms INTEGER,
		floors INTEGER,

		price DECIMAL(12, 2),
		price_per_sqft DECIMAL(8, 2),
		monthly_rent DECIMAL(10, 2),
		property_taxes DECIMAL(10, 2),

		property_type VARCHAR(30),
		status VARCHAR(20) NOT NULL DEFAULT 'disponible',
		year_built INTEGER,
		lot_size DECIMAL(10, 2),
		garage_spaces INTEGER,
		has_basement BOOLEAN NOT NULL DEFAULT FALSE,
		has_pool BOOLEAN NOT NULL DEFAULT FALSE,
		has_garden BOOLEAN NOT NULL DEFAULT FALSE,

		features JSONB,
		metadata JSONB,

		user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,

		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Indexes for filtering
	CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_properties_city_state ON properties(city, state);
	CREATE INDEX IF NOT EXISTS idx_properties_type_status ON properties(property_type, status);
	CREATE INDEX IF NOT EXISTS idx_properties_price ON properties(price);
	CREATE INDEX IF NOT EXISTS idx_properties_beds_baths ON properties(bedrooms, bathrooms);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *PostgresStore) CreateProperty(ctx context.Context, p *models.Property) error {
	if p.Status == "" {
		p.Status = models.PropertyStatusDisponible
	}
	query := s.db.Rebind(`
		INSERT INTO properties (` + propertyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`)

	row := s.db.QueryRowxContext(ctx, query,
		p.Title, p.Description, p.Address, p.City, p.State, p.ZipCode,
		p.Latitude, p.Longitude, p.SquareFeet, p.Bedrooms, p.Bathrooms, p.Floors,
		p.Price, p.PricePerSqft, p.MonthlyRent, p.PropertyTaxes,
		p.PropertyType, p.Status, p.YearBuilt, p.LotSize, p.GarageSpaces,
		p.HasBasement, p.HasPool, p.HasGarden, p.Features, p.Metadata, p.UserID,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.db.GetContext(ctx, &p,
		s.db.Rebind(`SELECT id, `+propertyColumns+`, created_at, updated_at FROM properties WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	if err := s.loadOwner(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) loadOwner(ctx context.Context, p *models.Property) error {
	if p.UserID == nil {
		return nil
	}
	var u models.User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind(`SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`), *p.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load owner %d: %w", *p.UserID, err)
	}
	p.User = &u
	return nil
}

func (s *PostgresStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	query := s.db.Rebind(`
		UPDATE properties SET
			title = ?, description = ?, address = ?, city = ?, state = ?, zip_code = ?,
			latitude = ?, longitude = ?, square_feet = ?, bedrooms = ?, bathrooms = ?, floors = ?,
			price = ?, price_per_sqft = ?, monthly_rent = ?, property_taxes = ?,
			property_type = ?, status = ?, year_built = ?, lot_size = ?, garage_spaces = ?,
			has_basement = ?, has_pool = ?, has_garden = ?, features = ?, metadata = ?, user_id = ?,
			updated_at = NOW()
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Address, p.City, p.State, p.ZipCode,
		p.Latitude, p.Longitude, p.SquareFeet, p.Bedrooms, p.Bathrooms, p.Floors,
		p.Price, p.PricePerSqft, p.MonthlyRent, p.PropertyTaxes,
		p.PropertyType, p.Status, p.YearBuilt, p.LotSize, p.GarageSpaces,
		p.HasBasement, p.HasPool, p.HasGarden, p.Features, p.Metadata, p.UserID,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update property %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProperty(ctx context.Context, id uint) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM properties WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryPage runs the shared count + select dance for a predicate list.
func (s *PostgresStore) queryPage(ctx context.Context, preds []predicate, order string, limit, offset, page, perPage int) (*PropertyPage, error) {
	var clauses []string
	var args []interface{}
	for _, pred := range preds {
		clauses = append(clauses, pred.expr)
		args = append(args, pred.args...)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int64
	countQuery := s.db.Rebind(`SELECT COUNT(*) FROM properties` + where)
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	listQuery := s.db.Rebind(fmt.Sprintf(
		`SELECT id, %s, created_at, updated_at FROM properties%s ORDER BY %s LIMIT ? OFFSET ?`,
		propertyColumns, where, order))
	listArgs := append(append([]interface{}{}, args...), limit, offset)

	var items []models.Property
	if err := s.db.SelectContext(ctx, &items, listQuery, listArgs...); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	for i := range items {
		if err := s.loadOwner(ctx, &items[i]); err != nil {
			return nil, err
		}
	}

	return &PropertyPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *PostgresStore) ListProperties(ctx context.Context, f PropertyFilters) (*PropertyPage, error) {
	return s.queryPage(ctx, f.predicates(), f.orderClause(), f.perPage(), f.offset(), f.page(), f.perPage())
}

func (s *PostgresStore) SearchProperties(ctx context.Context, params SearchParams) (*PropertyPage, error) {
	return s.queryPage(ctx, params.predicates(), "created_at DESC",
		params.perPage(), params.offset(), params.page(), params.perPage())
}

// Stats recomputes the aggregate snapshot from the full collection.
func (s *PostgresStore) Stats(ctx context.Context) (*PropertyStats, error) {
	stats := &PropertyStats{PropertyTypes: map[string]int64{}}

	if err := s.db.GetContext(ctx, &stats.TotalProperties, `SELECT COUNT(*) FROM properties`); err != nil {
		return nil, fmt.Errorf("stats total: %w", err)
	}

	statusCounts := []struct {
		status models.PropertyStatus
		dest   *int64
	}{
		{models.PropertyStatusDisponible, &stats.AvailableProperties},
		{models.PropertyStatusVendida, &stats.SoldProperties},
		{models.PropertyStatusRentada, &stats.RentedProperties},
	}
	for _, sc := range statusCounts {
		err := s.db.GetContext(ctx, sc.dest,
			s.db.Rebind(`SELECT COUNT(*) FROM properties WHERE status = ?`), sc.status)
		if err != nil {
			return nil, fmt.Errorf("stats status %s: %w", sc.status, err)
		}
	}

	averages := []struct {
		column string
		dest   **float64
	}{
		{"price", &stats.AveragePrice},
		{"price_per_sqft", &stats.AveragePricePerSqft},
		{"square_feet", &stats.AverageSquareFeet},
	}
	for _, avg := range averages {
		var v sql.NullFloat64
		query := fmt.Sprintf(`SELECT AVG(%s) FROM properties WHERE %s IS NOT NULL`, avg.column, avg.column)
		if err := s.db.GetContext(ctx, &v, query); err != nil {
			return nil, fmt.Errorf("stats avg %s: %w", avg.column, err)
		}
		if v.Valid {
			*avg.dest = &v.Float64
		}
	}

	rows, err := s.db.QueryxContext(ctx,
		`SELECT property_type, COUNT(*) FROM properties WHERE property_type IS NOT NULL GROUP BY property_type`)
	if err != nil {
		return nil, fmt.Errorf("stats property types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pt string
		var count int64
		if err := rows.Scan(&pt, &count); err != nil {
			return nil, fmt.Errorf("stats property types: %w", err)
		}
		stats.PropertyTypes[pt] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats property types: %w", err)
	}

	return stats, nil
}

func (s *PostgresStore) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return count > 0, nil
}
