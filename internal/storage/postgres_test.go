package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewPostgresStore(mock, logger), mock
}

func productRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"product_id", "name", "description", "category", "subcategory",
		"price", "brand", "rating", "emotion_tags", "features", "color",
		"image_url", "stock", "created_at",
	})
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func TestAllProducts(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := productRows().
		AddRow("p1", "Lavender Candle", strPtr("calming"), strPtr("home"), strPtr("decor"),
			f64Ptr(19.99), strPtr("Zenco"), f64Ptr(4.5), []string{"calm"}, []string{"scented"},
			strPtr("purple"), strPtr("http://img/p1"), intPtr(10), now).
		AddRow("p2", "Trail Shoes", nil, nil, nil,
			nil, nil, nil, []string(nil), []string(nil), nil, nil, nil, now)

	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY").WillReturnRows(rows)

	products, err := store.AllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "home", products[0].Category)
	assert.Equal(t, 19.99, products[0].Price)
	assert.Equal(t, []string{"calm"}, products[0].EmotionTags)

	// Null columns come back as zero values.
	assert.Equal(t, "p2", products[1].ID)
	assert.Empty(t, products[1].Category)
	assert.Zero(t, products[1].Price)
	assert.Zero(t, products[1].Rating)
}

func TestProductClampsMalformedValues(t *testing.T) {
	store, mock := newMockStore(t)

	rows := productRows().
		AddRow("p1", "Broken", nil, nil, nil,
			f64Ptr(-5), nil, f64Ptr(9.7), []string(nil), []string(nil), nil, nil, nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM products WHERE product_id").
		WithArgs("p1").WillReturnRows(rows)

	product, err := store.Product(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, 0.0, product.Price, "negative price defaults to zero")
	assert.Equal(t, 5.0, product.Rating, "rating clamps to the 0..5 range")
}

func TestProductNotFoundReturnsNil(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE product_id").
		WithArgs("missing").WillReturnRows(productRows())

	product, err := store.Product(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestRecentInteractionsKeepsQueryOrder(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "user_id", "product_id", "action", "emotion", "timestamp"}).
		AddRow(uuid.New(), "u1", "p2", "purchase", strPtr("happy"), now).
		AddRow(uuid.New(), "u1", "p1", "view", nil, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM interactions").
		WithArgs("u1", 20).WillReturnRows(rows)

	interactions, err := store.RecentInteractions(context.Background(), "u1", 20)
	require.NoError(t, err)
	require.Len(t, interactions, 2)

	assert.Equal(t, "p2", interactions[0].ProductID)
	assert.Equal(t, "happy", interactions[0].Emotion)
	assert.Equal(t, "p1", interactions[1].ProductID)
	assert.Empty(t, interactions[1].Emotion)
}

func TestUserRecordMalformedPreferencesDegrades(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"user_id", "name", "email", "preferences", "demographics", "created_at"}).
		AddRow("u1", strPtr("Sam"), nil, []byte(`{broken json`), []byte(nil), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("u1").WillReturnRows(rows)

	record, err := store.UserRecord(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Sam", record.Name)
	assert.Equal(t, models.UserPreferences{}, record.Preferences)
}

func TestUserRecordNotFoundReturnsNil(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "email", "preferences", "demographics", "created_at"}))

	record, err := store.UserRecord(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRecordInteractionFillsDefaults(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO interactions").
		WithArgs(pgxmock.AnyArg(), "u1", "p1", "view", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	interaction := &models.UserInteraction{
		UserID:    "u1",
		ProductID: "p1",
		Action:    "view",
	}

	require.NoError(t, store.RecordInteraction(context.Background(), interaction))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", interaction.ID.String())
	assert.False(t, interaction.Timestamp.IsZero())
}

func TestRecordRecommendations(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(pgxmock.AnyArg(), "u1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	recs := []models.Recommendation{
		{Product: models.Product{ID: "p1", Name: "Candle"}, ConfidenceScore: 0.9, Reason: "Popular choice"},
	}

	err := store.RecordRecommendations(context.Background(), "u1", recs, map[string]string{"mood": "calm"})
	require.NoError(t, err)
}

func TestRecordRecommendationsInsertFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(pgxmock.AnyArg(), "u1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := store.RecordRecommendations(context.Background(), "u1", nil, nil)
	assert.Error(t, err)
}
