package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-listings/internal/models"
)

// GormStore is the MySQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(host, port, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

// NewGormStoreFromDB wraps an existing gorm.DB instance.
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying gorm.DB instance.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate.
func (s *GormStore) InitSchema() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Property{},
	)
}

func (s *GormStore) CreateProperty(ctx context.Context, p *models.Property) error {
	if p.Status == "" {
		p.Status = models.PropertyStatusDisponible
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

func (s *GormStore) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).Preload("User").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	return &p, nil
}

func (s *GormStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update property %d: %w", p.ID, err)
	}
	return nil
}

func (s *GormStore) DeleteProperty(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Property{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete property %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListProperties(ctx context.Context, f PropertyFilters) (*PropertyPage, error) {
	q := s.db.WithContext(ctx).Model(&models.Property{})
	for _, pred := range f.predicates() {
		q = q.Where(pred.expr, pred.args...)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	var items []models.Property
	err := q.Order(f.orderClause()).
		Limit(f.perPage()).
		Offset(f.offset()).
		Preload("User").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	return &PropertyPage{Items: items, Total: total, Page: f.page(), PerPage: f.perPage()}, nil
}

func (s *GormStore) SearchProperties(ctx context.Context, params SearchParams) (*PropertyPage, error) {
	q := s.db.WithContext(ctx).Model(&models.Property{})
	for _, pred := range params.predicates() {
		q = q.Where(pred.expr, pred.args...)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	var items []models.Property
	err := q.Order("created_at DESC").
		Limit(params.perPage()).
		Offset(params.offset()).
		Preload("User").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	return &PropertyPage{Items: items, Total: total, Page: params.page(), PerPage: params.perPage()}, nil
}

// Stats recomputes the aggregate snapshot from the full collection. Status
// buckets count the validated vocabulary: disponible, vendida and rentada.
func (s *GormStore) Stats(ctx context.Context) (*PropertyStats, error) {
	db := s.db.WithContext(ctx)
	stats := &PropertyStats{PropertyTypes: map[string]int64{}}

	if err := db.Model(&models.Property{}).Count(&stats.TotalProperties).Error; err != nil {
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
		if err := db.Model(&models.Property{}).Where("status = ?", sc.status).Count(sc.dest).Error; err != nil {
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
		err := db.Model(&models.Property{}).
			Where(avg.column + " IS NOT NULL").
			Select("AVG(" + avg.column + ")").
			Scan(&v).Error
		if err != nil {
			return nil, fmt.Errorf("stats avg %s: %w", avg.column, err)
		}
		if v.Valid {
			*avg.dest = &v.Float64
		}
	}

	var typeCounts []struct {
		PropertyType string `gorm:"column:property_type"`
		Count        int64  `gorm:"column:count"`
	}
	err := db.Model(&models.Property{}).
		Select("property_type, COUNT(*) as count").
		Where("property_type IS NOT NULL").
		Group("property_type").
		Scan(&typeCounts).Error
	if err != nil {
		return nil, fmt.Errorf("stats property types: %w", err)
	}
	for _, tc := range typeCounts {
		stats.PropertyTypes[tc.PropertyType] = tc.Count
	}

	return stats, nil
}

func (s *GormStore) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return count > 0, nil
}
