package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
	templates "github.com/linesmerrill/civicdesk/templates/html"
)

// DefaultPendingDays is how long a complaint may sit in Pending before it shows up in the digest
const DefaultPendingDays = 3

const (
	digestLockKey = "digest_job"
	digestLockTTL = 10 * time.Minute
	digestTimeout = 5 * time.Minute
)

// Mailer delivers one email to one user
type Mailer interface {
	Send(to models.User, subject, plainText, htmlContent string) error
}

// Lock keeps a job from running on more than one instance at a time
type Lock interface {
	TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

// Digest emails every admin a daily list of complaints stuck in Pending
type Digest struct {
	cron        *cron.Cron
	CDB         databases.ComplaintDatabase
	UDB         databases.UserDatabase
	Mailer      Mailer
	Lock        Lock
	PendingDays int
	// DeskURL is linked from the email when set
	DeskURL    string
	Now        func() time.Time
	instanceID string
}

// NewDigest creates a digest job. Lock may be nil when only one instance runs.
func NewDigest(cDB databases.ComplaintDatabase, uDB databases.UserDatabase, mailer Mailer, lock Lock) *Digest {
	// Heroku sets DYNO to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Digest{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		CDB:         cDB,
		UDB:         uDB,
		Mailer:      mailer,
		Lock:        lock,
		PendingDays: DefaultPendingDays,
		Now:         time.Now,
		instanceID:  instanceID,
	}
}

// Start schedules the digest on the given cron spec and starts the scheduler
func (d *Digest) Start(spec string) error {
	if _, err := d.cron.AddFunc(spec, d.runScheduled); err != nil {
		return fmt.Errorf("failed to register digest job %q: %w", spec, err)
	}
	d.cron.Start()
	zap.S().Infow("digest scheduler started", "spec", spec, "instance", d.instanceID)
	return nil
}

// Stop gracefully stops the scheduler
func (d *Digest) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	zap.S().Info("digest scheduler stopped")
}

func (d *Digest) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if d.Lock != nil {
		acquired, err := d.Lock.TryAcquire(ctx, digestLockKey, d.instanceID, digestLockTTL)
		if err != nil {
			zap.S().Errorw("failed to acquire lock for digest job", "error", err)
			return
		}
		if !acquired {
			zap.S().Debug("digest job already running on another instance, skipping")
			return
		}
		defer func() {
			if err := d.Lock.Release(ctx, digestLockKey, d.instanceID); err != nil {
				zap.S().Warnw("failed to release digest lock", "error", err)
			}
		}()
	}

	sent, err := d.Run(ctx)
	if err != nil {
		zap.S().Errorw("digest job finished with errors", "sent", sent, "error", err)
		return
	}
	zap.S().Infow("digest job finished", "sent", sent)
}

// Run sends one digest and returns how many admins received it. Nothing is sent
// when no complaint is old enough.
func (d *Digest) Run(ctx context.Context) (int, error) {
	now := d.Now().UTC()
	cutoff := now.AddDate(0, 0, -d.PendingDays)

	pending, err := d.CDB.Find(ctx, bson.M{
		"status":    models.StatusPending,
		"createdAt": bson.M{"$lte": cutoff},
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return 0, fmt.Errorf("failed to find pending complaints: %w", err)
	}
	if len(pending) == 0 {
		zap.S().Debugw("no stale complaints for digest", "cutoff", cutoff)
		return 0, nil
	}

	admins, err := d.UDB.Find(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return 0, fmt.Errorf("failed to find admins: %w", err)
	}

	items := make([]templates.PendingItem, 0, len(pending))
	for _, c := range pending {
		items = append(items, templates.PendingItem{
			Title:      c.Title,
			AuthorName: c.AuthorName,
			Category:   c.Category,
			DaysOpen:   int(now.Sub(c.CreatedAt).Hours() / 24),
		})
	}
	subject, plainText, htmlContent := templates.RenderPendingDigest(items, d.PendingDays, d.DeskURL)

	sent := 0
	var errs []error
	for _, admin := range admins {
		if err := d.Mailer.Send(admin, subject, plainText, htmlContent); err != nil {
			zap.S().Errorw("failed to send digest", "to", admin.Email, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", admin.Email, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// SendgridMailer sends email through the SendGrid v3 API
type SendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendgridMailer creates a mailer that sends from fromEmail
func NewSendgridMailer(apiKey, fromEmail string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("CivicDesk", fromEmail),
	}
}

// Send delivers a single email
func (m *SendgridMailer) Send(to models.User, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(to.Name, to.Email), plainText, htmlContent)
	response, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// RedisLock is a Lock backed by SET NX
type RedisLock struct {
	Redis  redis.Cmdable
	Prefix string
}

// TryAcquire takes the lock for owner unless someone else holds it
func (l RedisLock) TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return l.Redis.SetNX(ctx, l.Prefix+":"+key, owner, ttl).Result()
}

// Release drops the lock if owner still holds it
func (l RedisLock) Release(ctx context.Context, key, owner string) error {
	k := l.Prefix + ":" + key
	holder, err := l.Redis.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder != owner {
		return nil
	}
	return l.Redis.Del(ctx, k).Err()
}
