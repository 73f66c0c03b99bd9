package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-archive-storage/internal/weather"
)

const dateLayout = "2006-01-02"

// Scheduler periodically ingests a trailing window of archive data for
// configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	locations []weather.Location
	interval  time.Duration
	lookback  int
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, lookbackDays int, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		interval:  interval,
		lookback:  lookbackDays,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) run() {
	log.Println("scheduler: running archive ingestion job")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			q := QueryFor(loc, time.Now(), s.lookback)
			if _, err := s.service.Ingest(ctx, q); err != nil {
				log.Printf("scheduler: ingestion failed for %s: %v", loc.Key(), err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed archive ingestion job")
}

// QueryFor builds the ingestion query covering the lookbackDays full days
// before now (UTC). Today is excluded since the archive lags behind.
func QueryFor(loc weather.Location, now time.Time, lookbackDays int) weather.Query {
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return weather.Query{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		StartDate: today.AddDate(0, 0, -lookbackDays).Format(dateLayout),
		EndDate:   today.AddDate(0, 0, -1).Format(dateLayout),
	}
}
