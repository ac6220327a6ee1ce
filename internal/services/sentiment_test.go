package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

type stubRemoteSentiment struct {
	result *models.SentimentAnalysis
	err    error
	calls  int
}

func (s *stubRemoteSentiment) AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentAnalysis, error) {
	s.calls++
	return s.result, s.err
}

func TestSentimentServicePrefersRemote(t *testing.T) {
	remote := &stubRemoteSentiment{
		result: &models.SentimentAnalysis{
			PrimaryEmotion:     "excited",
			EmotionIntensity:   7,
			MoodCategory:       "positive",
			ShoppingMotivation: "treat yourself",
		},
	}
	svc := NewSentimentService(remote, NewEmotionMatcher(), testLogger())

	sentiment, err := svc.AnalyzeSentiment(context.Background(), "so pumped for the weekend")
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, "excited", sentiment.PrimaryEmotion)
	assert.Equal(t, "treat yourself", sentiment.ShoppingMotivation)
}

func TestSentimentServiceFallsBackOnRemoteFailure(t *testing.T) {
	remote := &stubRemoteSentiment{err: errors.New("upstream timeout")}
	svc := NewSentimentService(remote, NewEmotionMatcher(), testLogger())

	sentiment, err := svc.AnalyzeSentiment(context.Background(), "What a great and amazing day")
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, "happy", sentiment.PrimaryEmotion)
	assert.Equal(t, "positive", sentiment.MoodCategory)
	assert.Equal(t, 10.0, sentiment.EmotionIntensity)
}

func TestSentimentServiceLocalOnly(t *testing.T) {
	svc := NewSentimentService(nil, NewEmotionMatcher(), testLogger())

	sentiment, err := svc.AnalyzeSentiment(context.Background(), "everything is terrible and awful")
	require.NoError(t, err)

	assert.Equal(t, "sad", sentiment.PrimaryEmotion)
	assert.Equal(t, "negative", sentiment.MoodCategory)
}

func TestSentimentServiceRejectsEmptyText(t *testing.T) {
	svc := NewSentimentService(nil, NewEmotionMatcher(), testLogger())

	_, err := svc.AnalyzeSentiment(context.Background(), "")
	assert.Error(t, err)
}
