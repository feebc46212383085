package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the periodic maintenance jobs:
// directory refresh and idle session sweeping
type CronService struct {
	cron      *cron.Cron
	directory *DirectoryCache
	sessions  *SessionStore
	timeout   time.Duration
}

// NewCronService creates the scheduler in the given time zone
func NewCronService(directory *DirectoryCache, sessions *SessionStore, loc *time.Location) *CronService {
	if loc == nil {
		loc = time.Local
	}
	return &CronService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		directory: directory,
		sessions:  sessions,
		timeout:   30 * time.Second,
	}
}

// ScheduleDirectoryRefresh reloads the directory on schedule (standard 5-field cron or @every).
// An empty schedule disables the job.
func (s *CronService) ScheduleDirectoryRefresh(schedule string) error {
	if schedule == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, s.refreshDirectory); err != nil {
		return fmt.Errorf("invalid directory refresh schedule %q: %w", schedule, err)
	}
	log.Printf("⏰ Directory refresh scheduled: %s", schedule)
	return nil
}

// ScheduleSessionSweep evicts idle sessions every interval; interval <= 0 disables the job
func (s *CronService) ScheduleSessionSweep(interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	schedule := "@every " + interval.String()
	if _, err := s.cron.AddFunc(schedule, s.sessions.Sweep); err != nil {
		return fmt.Errorf("invalid session sweep interval %s: %w", interval, err)
	}
	log.Printf("⏰ Session sweep scheduled: %s", schedule)
	return nil
}

// Start launches the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) refreshDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.directory.Reload(ctx); err != nil {
		log.Printf("❌ Scheduled directory refresh failed, keeping previous snapshot: %v", err)
	}
}
