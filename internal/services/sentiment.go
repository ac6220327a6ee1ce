package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// RemoteSentimentAnalyzer is the external text-understanding collaborator.
type RemoteSentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentAnalysis, error)
}

// SentimentService answers mood analysis requests, preferring the remote
// analyzer and degrading to the local keyword analyzer when it is
// unavailable or fails.
type SentimentService struct {
	remote  RemoteSentimentAnalyzer
	matcher *EmotionMatcher
	logger  *logrus.Logger
}

func NewSentimentService(remote RemoteSentimentAnalyzer, matcher *EmotionMatcher, logger *logrus.Logger) *SentimentService {
	return &SentimentService{
		remote:  remote,
		matcher: matcher,
		logger:  logger,
	}
}

func (s *SentimentService) AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentAnalysis, error) {
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	if s.remote != nil {
		sentiment, err := s.remote.AnalyzeSentiment(ctx, text)
		if err == nil && sentiment != nil {
			return sentiment, nil
		}
		if err != nil {
			s.logger.WithError(err).Debug("Remote sentiment analysis failed, using local analyzer")
		}
	}

	return s.localSentiment(text), nil
}

func (s *SentimentService) localSentiment(text string) *models.SentimentAnalysis {
	reading := s.matcher.AnalyzeTextEmotion(text)

	mood := "neutral"
	switch {
	case reading.Polarity > 0.3:
		mood = "positive"
	case reading.Polarity < -0.3:
		mood = "negative"
	}

	return &models.SentimentAnalysis{
		PrimaryEmotion:   reading.PrimaryEmotion,
		EmotionIntensity: reading.Intensity,
		MoodCategory:     mood,
	}
}
