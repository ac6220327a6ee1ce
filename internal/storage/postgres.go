package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// DB is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type PostgresStore struct {
	db     DB
	logger *logrus.Logger
}

func NewPostgresStore(db DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

const productColumns = `product_id, name, description, category, subcategory,
	price, brand, rating, emotion_tags, features, color, image_url, stock, created_at`

func (s *PostgresStore) AllProducts(ctx context.Context) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at, product_id`, productColumns)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return s.scanProducts(rows)
}

func (s *PostgresStore) Product(ctx context.Context, productID string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE product_id = $1`, productColumns)

	row := s.db.QueryRow(ctx, query, productID)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product %s: %w", productID, err)
	}

	return product, nil
}

func (s *PostgresStore) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category = $1 ORDER BY created_at, product_id`, productColumns)

	rows, err := s.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by category: %w", err)
	}
	defer rows.Close()

	return s.scanProducts(rows)
}

func (s *PostgresStore) RecentInteractions(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error) {
	query := `
		SELECT id, user_id, product_id, action, emotion, timestamp
		FROM interactions
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []models.UserInteraction
	for rows.Next() {
		var interaction models.UserInteraction
		var emotion *string

		if err := rows.Scan(
			&interaction.ID, &interaction.UserID, &interaction.ProductID,
			&interaction.Action, &emotion, &interaction.Timestamp,
		); err != nil {
			s.logger.WithError(err).Warn("Failed to scan interaction row")
			continue
		}

		if emotion != nil {
			interaction.Emotion = *emotion
		}

		interactions = append(interactions, interaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read interaction rows: %w", err)
	}

	return interactions, nil
}

func (s *PostgresStore) UserRecord(ctx context.Context, userID string) (*models.UserRecord, error) {
	query := `
		SELECT user_id, name, email, preferences, demographics, created_at
		FROM users
		WHERE user_id = $1`

	var record models.UserRecord
	var name, email *string
	var preferences, demographics []byte

	err := s.db.QueryRow(ctx, query, userID).Scan(
		&record.UserID, &name, &email, &preferences, &demographics, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user %s: %w", userID, err)
	}

	if name != nil {
		record.Name = *name
	}
	if email != nil {
		record.Email = *email
	}
	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &record.Preferences); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Malformed user preferences, using defaults")
			record.Preferences = models.UserPreferences{}
		}
	}
	if len(demographics) > 0 {
		if err := json.Unmarshal(demographics, &record.Demographics); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Malformed user demographics, using defaults")
			record.Demographics = nil
		}
	}

	return &record, nil
}

func (s *PostgresStore) RecordInteraction(ctx context.Context, interaction *models.UserInteraction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO interactions (id, user_id, product_id, action, emotion, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`

	var emotion *string
	if interaction.Emotion != "" {
		emotion = &interaction.Emotion
	}

	if _, err := s.db.Exec(ctx, query,
		interaction.ID, interaction.UserID, interaction.ProductID,
		interaction.Action, emotion, interaction.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	return nil
}

func (s *PostgresStore) RecordRecommendations(ctx context.Context, userID string, recommendations []models.Recommendation, reqContext map[string]string) error {
	payload, err := json.Marshal(recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	contextPayload, err := json.Marshal(reqContext)
	if err != nil {
		return fmt.Errorf("failed to marshal request context: %w", err)
	}

	query := `
		INSERT INTO recommendations (id, user_id, recommendations, context, timestamp)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.db.Exec(ctx, query,
		uuid.New(), userID, payload, contextPayload, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to insert recommendations: %w", err)
	}

	return nil
}

func (s *PostgresStore) scanProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to scan product row")
			continue
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var product models.Product
	var description, category, subcategory, brand, color, imageURL *string
	var price, rating *float64
	var stock *int

	if err := row.Scan(
		&product.ID, &product.Name, &description, &category, &subcategory,
		&price, &brand, &rating, &product.EmotionTags, &product.Features,
		&color, &imageURL, &stock, &product.CreatedAt,
	); err != nil {
		return nil, err
	}

	// Malformed rows degrade to neutral defaults so downstream scoring
	// never branches on missing fields.
	if description != nil {
		product.Description = *description
	}
	if category != nil {
		product.Category = *category
	}
	if subcategory != nil {
		product.Subcategory = *subcategory
	}
	if brand != nil {
		product.Brand = *brand
	}
	if color != nil {
		product.Color = *color
	}
	if imageURL != nil {
		product.ImageURL = *imageURL
	}
	if price != nil && *price >= 0 {
		product.Price = *price
	}
	if rating != nil {
		product.Rating = clampRating(*rating)
	}
	if stock != nil {
		product.Stock = *stock
	}

	return &product, nil
}

func clampRating(rating float64) float64 {
	if rating < 0 {
		return 0
	}
	if rating > 5 {
		return 5
	}
	return rating
}
