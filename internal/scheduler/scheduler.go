package scheduler

import (
	"log"
	"time"

	"telegram-delivery-bot/internal/storage"

	"github.com/go-co-op/gocron/v2"
)

// Start schedules a daily job that logs how many orders came in over the
// last day. Purely operational, the ordering flow itself has no timers.
func Start(db *storage.DB) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			n, err := db.CountOrdersSince(time.Now().Add(-24 * time.Hour))
			if err != nil {
				log.Println("Ошибка подсчёта заказов:", err)
				return
			}
			log.Printf("За последние сутки создано заказов: %d", n)
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
