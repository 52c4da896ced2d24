package services

import (
	"context"
	"log"
	"time"

	"campus-visitpass/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// DigestService mails admins a morning summary of the review queue
type DigestService struct {
	reportService *ReportService
	notifyService *NotificationService
	userRepo      repositories.UserRepository
	schedule      string
	cron          *cron.Cron
}

// NewDigestService creates a new digest service
func NewDigestService(
	reportService *ReportService,
	notifyService *NotificationService,
	userRepo repositories.UserRepository,
	schedule string,
) *DigestService {
	return &DigestService{
		reportService: reportService,
		notifyService: notifyService,
		userRepo:      userRepo,
		schedule:      schedule,
	}
}

// Start registers the digest job and starts the scheduler
func (s *DigestService) Start() error {
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🕗 Admin digest scheduled: %q", s.schedule)
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *DigestService) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("🛑 Admin digest stopped")
}

func (s *DigestService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pending, err := s.reportService.CountPending(ctx)
	if err != nil {
		log.Printf("⚠️ Digest: counting pending requests failed: %v", err)
		return
	}
	if pending == 0 {
		return
	}

	admins, _, err := s.userRepo.List(ctx, "admin", 0, 100)
	if err != nil {
		log.Printf("⚠️ Digest: listing admins failed: %v", err)
		return
	}

	for _, admin := range admins {
		s.notifyService.NotifyPendingDigest(admin.Email, admin.Name, pending)
	}
	log.Printf("📨 Digest sent to %d admins (%d pending)", len(admins), pending)
}
