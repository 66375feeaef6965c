// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/muthomi/sendhub-backend/internal/controller"
	"github.com/muthomi/sendhub-backend/internal/db"
	"github.com/muthomi/sendhub-backend/internal/queue"
	"github.com/muthomi/sendhub-backend/internal/repository"
	"github.com/muthomi/sendhub-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	messageRepo := &repository.MessageRepository{DB: db.DB}
	subscriberRepo := &repository.SubscriberRepository{DB: db.DB}
	queue.StartMessageEventSubscriber(q, messageRepo)

	campaignService := &service.CampaignService{
		CampaignRepo:   campaignRepo,
		MessageRepo:    messageRepo,
		SubscriberRepo: subscriberRepo,
	}

	statsService := &service.StatsService{
		MessageRepo: messageRepo,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		StatsService:    statsService,
		Queue:           q,
	}

	r := chi.NewRouter()

	// Campaign routes, all workspace scoped
	r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
		r.Post("/campaigns", campaignController.CreateCampaign)
		r.Get("/campaigns", campaignController.ListCampaigns)
		r.Get("/campaigns/counts", campaignController.GetCounts)
		r.Get("/campaigns/{id}", campaignController.GetCampaign)
		r.Get("/campaigns/{id}/stats", campaignController.GetCampaignStats)
		r.Post("/campaigns/{id}/queue", campaignController.QueueCampaign)
		r.Post("/campaigns/{id}/cancel", campaignController.CancelCampaign)
		r.Post("/message-events", campaignController.IngestMessageEvent)
	})

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
