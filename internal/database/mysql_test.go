package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-listings/internal/models"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStoreFromDB(gdb), mock
}

func emptyPropertyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"})
}

func TestListPropertiesQueryComposition(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties` WHERE LOWER\\(city\\) LIKE \\? AND bedrooms >= \\? AND price >= \\?").
		WithArgs("%guadalajara%", 3, 100000.0).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))
	mock.ExpectQuery("SELECT \\* FROM `properties` WHERE LOWER\\(city\\) LIKE \\? AND bedrooms >= \\? AND price >= \\? ORDER BY price ASC").
		WillReturnRows(emptyPropertyRows())

	page, err := store.ListProperties(context.Background(), PropertyFilters{
		City:          "Guadalajara",
		Bedrooms:      intPtr(3),
		MinPrice:      floatPtr(100000),
		SortBy:        "price",
		SortDirection: "asc",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPerPage, page.PerPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPropertiesUnknownSortFallsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery("SELECT \\* FROM `properties` ORDER BY created_at DESC").
		WillReturnRows(emptyPropertyRows())

	_, err := store.ListProperties(context.Background(), PropertyFilters{SortBy: "palindrome"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPropertiesQueryComposition(t *testing.T) {
	store, mock := newMockStore(t)

	where := "WHERE \\(LOWER\\(title\\) LIKE \\? OR LOWER\\(description\\) LIKE \\? OR LOWER\\(address\\) LIKE \\? OR LOWER\\(city\\) LIKE \\?\\) " +
		"AND latitude BETWEEN \\? AND \\? AND longitude BETWEEN \\? AND \\?"

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties` " + where).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `properties` " + where + " ORDER BY created_at DESC").
		WillReturnRows(emptyPropertyRows())

	_, err := store.SearchProperties(context.Background(), SearchParams{
		Query:     "Centro",
		Latitude:  floatPtr(19.43),
		Longitude: floatPtr(-99.13),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPropertiesTextOnly(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties` WHERE \\(LOWER\\(title\\) LIKE \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery("SELECT \\* FROM `properties` WHERE \\(LOWER\\(title\\) LIKE \\?").
		WillReturnRows(emptyPropertyRows())

	// A lone latitude must not produce BETWEEN clauses.
	_, err := store.SearchProperties(context.Background(), SearchParams{
		Query:    "loft",
		Latitude: floatPtr(19.43),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPropertyNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `properties` WHERE `properties`.`id` = \\?").
		WithArgs(42, 1).
		WillReturnRows(emptyPropertyRows())

	_, err := store.GetProperty(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePropertyNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `properties` WHERE `properties`.`id` = \\?").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.DeleteProperty(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePropertyDefaultsStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `properties`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	p := &models.Property{Title: strPtr("Casa en Coyoacán")}
	require.NoError(t, store.CreateProperty(context.Background(), p))

	assert.Equal(t, models.PropertyStatusDisponible, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	store, mock := newMockStore(t)

	countRow := func(n int64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
	}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties`").
		WillReturnRows(countRow(10))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties` WHERE status = \\?").
		WithArgs("disponible").
		WillReturnRows(countRow(5))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties` WHERE status = \\?").
		WithArgs("vendida").
		WillReturnRows(countRow(3))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `properties` WHERE status = \\?").
		WithArgs("rentada").
		WillReturnRows(countRow(2))
	mock.ExpectQuery("SELECT AVG\\(price\\) FROM `properties` WHERE price IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(450000.5))
	mock.ExpectQuery("SELECT AVG\\(price_per_sqft\\) FROM `properties` WHERE price_per_sqft IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(312.4))
	mock.ExpectQuery("SELECT AVG\\(square_feet\\) FROM `properties` WHERE square_feet IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))
	mock.ExpectQuery("SELECT property_type, COUNT\\(\\*\\) as count FROM `properties` WHERE property_type IS NOT NULL GROUP BY").
		WillReturnRows(sqlmock.NewRows([]string{"property_type", "count"}).
			AddRow("casa", 6).
			AddRow("departamento", 4))

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.TotalProperties)
	assert.Equal(t, int64(5), stats.AvailableProperties)
	assert.Equal(t, int64(3), stats.SoldProperties)
	assert.Equal(t, int64(2), stats.RentedProperties)

	require.NotNil(t, stats.AveragePrice)
	assert.Equal(t, 450000.5, *stats.AveragePrice)
	assert.Nil(t, stats.AverageSquareFeet, "NULL average stays nil")

	assert.Equal(t, map[string]int64{"casa": 6, "departamento": 4}, stats.PropertyTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE id = \\?").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := store.UserExists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
}
