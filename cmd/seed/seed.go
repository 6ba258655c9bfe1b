package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/taleniq/ai-gateway/internal/store/model"
	"github.com/taleniq/ai-gateway/internal/store/sqlite"
)

// Seeds a week of synthetic generation logs so /v1/usage has data during
// local development.
func main() {
	repo, err := sqlite.NewSQLiteStorage("file:gateway.db?cache=shared&mode=rwc")
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	providers := []string{"OpenAI", "Google AI", "MiniMax", "Propietario"}
	capabilities := []string{"chat", "image", "video"}

	var logs []*model.GenerationLog
	now := time.Now().UTC()

	for day := 0; day < 7; day++ {
		for i := 0; i < 20+rand.Intn(40); i++ {
			status := 200
			if rand.Intn(20) == 0 {
				status = 500
			}
			logs = append(logs, &model.GenerationLog{
				ID:         uuid.NewString(),
				Provider:   providers[rand.Intn(len(providers))],
				Capability: capabilities[rand.Intn(len(capabilities))],
				ModelKey:   "seed-model",
				Streamed:   rand.Intn(2) == 0,
				StatusCode: status,
				LatencyMS:  int64(50 + rand.Intn(4000)),
				CreatedAt:  now.AddDate(0, 0, -day).Add(-time.Duration(rand.Intn(12)) * time.Hour),
			})
		}
	}

	if err := repo.Generations().LogBatch(ctx, logs); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded %d generation logs across 7 days\n", len(logs))
}
