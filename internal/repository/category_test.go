package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kiosk-service/internal/entity"
)

func TestCategoryNameTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM product_categories WHERE LOWER(name) = LOWER(?) AND id <> ?`)).
		WithArgs("Drinks", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.NameTaken(context.Background(), "Drinks", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndListCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCategoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_categories (name) VALUES (?)`)).
		WithArgs("Snacks").
		WillReturnResult(sqlmock.NewResult(3, 1))

	created, err := repo.CreateCategory(context.Background(), &entity.ProductCategory{Name: "Snacks"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM product_categories ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Drinks").AddRow(int64(3), "Snacks"))

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
