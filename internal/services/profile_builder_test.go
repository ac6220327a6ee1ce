package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

func TestBuildProfileFromInteractions(t *testing.T) {
	store := &MockStore{}
	builder := NewProfileBuilder(store, 20, testLogger())

	now := time.Now()
	interactions := []models.UserInteraction{
		{UserID: "u1", ProductID: "p1", Action: "view", Emotion: "stressed", Timestamp: now},
		{UserID: "u1", ProductID: "p2", Action: "like", Timestamp: now.Add(-time.Minute)},
		{UserID: "u1", ProductID: "p1", Action: "purchase", Emotion: "happy", Timestamp: now.Add(-2 * time.Minute)},
	}

	store.On("UserRecord", mock.Anything, "u1").Return(&models.UserRecord{
		UserID:      "u1",
		Preferences: models.UserPreferences{Categories: []string{"home"}},
	}, nil)
	store.On("RecentInteractions", mock.Anything, "u1", 20).Return(interactions, nil)
	store.On("Product", mock.Anything, "p1").Return(&models.Product{ID: "p1", Category: "home", Price: 50}, nil)
	store.On("Product", mock.Anything, "p2").Return(&models.Product{ID: "p2", Category: "sports", Price: 150}, nil)

	profile, err := builder.Build(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", profile.UserID)
	assert.Equal(t, []string{"home"}, profile.Preferences.Categories)
	assert.Equal(t, []string{"stressed", "happy"}, profile.RecentEmotions, "emotions keep newest-first order")
	assert.Equal(t, map[string]int{"home": 2, "sports": 1}, profile.CategoryPreferences)
	assert.Equal(t, 3, profile.InteractionCount)

	// Mean price is (50+150+50)/3 and the band spans 0.7x to 1.3x of it.
	avg := (50.0 + 150.0 + 50.0) / 3.0
	assert.InDelta(t, avg*0.7, profile.PreferredPriceRange[0], 1e-9)
	assert.InDelta(t, avg*1.3, profile.PreferredPriceRange[1], 1e-9)
}

func TestBuildProfileUnknownUserGetsEmptyPreferences(t *testing.T) {
	store := &MockStore{}
	builder := NewProfileBuilder(store, 20, testLogger())

	store.On("UserRecord", mock.Anything, "ghost").Return(nil, nil)
	store.On("RecentInteractions", mock.Anything, "ghost", 20).Return([]models.UserInteraction{}, nil)

	profile, err := builder.Build(context.Background(), "ghost")
	require.NoError(t, err)

	assert.Empty(t, profile.Preferences.Categories)
	assert.Empty(t, profile.RecentEmotions)
	assert.Equal(t, 0, profile.InteractionCount)
	assert.Equal(t, [2]float64{0, 1000}, profile.PreferredPriceRange, "no price samples means the default band")
}

func TestBuildProfileSkipsDanglingProductRefs(t *testing.T) {
	store := &MockStore{}
	builder := NewProfileBuilder(store, 20, testLogger())

	interactions := []models.UserInteraction{
		{UserID: "u1", ProductID: "gone", Action: "view", Emotion: "sad"},
		{UserID: "u1", ProductID: "p1", Action: "view"},
	}

	store.On("UserRecord", mock.Anything, "u1").Return(nil, nil)
	store.On("RecentInteractions", mock.Anything, "u1", 20).Return(interactions, nil)
	store.On("Product", mock.Anything, "gone").Return(nil, nil)
	store.On("Product", mock.Anything, "p1").Return(&models.Product{ID: "p1", Category: "beauty", Price: 30}, nil)

	profile, err := builder.Build(context.Background(), "u1")
	require.NoError(t, err)

	// The dangling interaction still counts and keeps its emotion, but adds
	// nothing to category or price statistics.
	assert.Equal(t, 2, profile.InteractionCount)
	assert.Equal(t, []string{"sad"}, profile.RecentEmotions)
	assert.Equal(t, map[string]int{"beauty": 1}, profile.CategoryPreferences)
	assert.InDelta(t, 21.0, profile.PreferredPriceRange[0], 1e-9)
	assert.InDelta(t, 39.0, profile.PreferredPriceRange[1], 1e-9)
}

func TestBuildProfilePropagatesStoreErrors(t *testing.T) {
	store := &MockStore{}
	builder := NewProfileBuilder(store, 20, testLogger())

	store.On("UserRecord", mock.Anything, "u1").Return(nil, errors.New("connection refused"))

	_, err := builder.Build(context.Background(), "u1")
	assert.Error(t, err)
}
