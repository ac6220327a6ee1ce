package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/messaging"
	"github.com/aniruddh-code-002/moodmart/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Product        *ProductHandler
	Recommendation *RecommendationHandler
	Interaction    *InteractionHandler
	Search         *SearchHandler
	Sentiment      *SentimentHandler
}

func New(logger *logrus.Logger, svc *services.Services, bus *messaging.MessageBus) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(svc.Health, logger),
		Product:        NewProductHandler(svc.Store, logger),
		Recommendation: NewRecommendationHandler(svc.Engine, logger),
		Interaction:    NewInteractionHandler(svc.Store, bus, svc.Metrics, logger),
		Search:         NewSearchHandler(svc.Engine, logger),
		Sentiment:      NewSentimentHandler(svc.Sentiment, logger),
	}
}
