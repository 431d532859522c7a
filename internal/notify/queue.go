package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"sehub/internal/logger"
	"sehub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "emails"
	failedKey = "emails:failed"

	maxTries = 3
)

type EmailJob struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Sender delivers one e-mail synchronously.
type Sender interface {
	Send(job EmailJob) error
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

type smtpSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.User != "" && s.cfg.Pass != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

// Queue is a Redis list of e-mail jobs drained by Start. Jobs are retried
// up to maxTries times and then moved to the failed list.
type Queue struct {
	redis       *redis.Client
	sender      Sender
	retryDelay  time.Duration
	pollWait    time.Duration
	errorDelay  time.Duration
	reportEvery time.Duration
}

func NewQueue(rdb *redis.Client, sender Sender) *Queue {
	return &Queue{
		redis:       rdb,
		sender:      sender,
		retryDelay:  5 * time.Second,
		pollWait:    2 * time.Second,
		errorDelay:  2 * time.Second,
		reportEvery: 15 * time.Second,
	}
}

func (q *Queue) Enqueue(ctx context.Context, kind, to, name, subject, body string) error {
	job := EmailJob{
		Kind:    kind,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := q.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "kind", kind, "to", to, "error", err)
		return err
	}

	logger.Debug("email queued", "kind", kind, "to", to)
	return nil
}

func (q *Queue) Start(ctx context.Context) {
	logger.Info("email worker started")

	var reported time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
		}

		if time.Since(reported) >= q.reportEvery {
			q.QueueLength(ctx)
			reported = time.Now()
		}

		if err := q.processNext(ctx); err != nil {
			logger.Warn("email queue unavailable", "error", err, "retry_in", q.errorDelay)
			select {
			case <-ctx.Done():
			case <-time.After(q.errorDelay):
			}
		}
	}
}

// processNext handles at most one job. It returns an error only when the
// queue itself could not be read.
func (q *Queue) processNext(ctx context.Context) error {
	result, err := q.redis.BRPop(ctx, q.pollWait, queueKey).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return nil
	}

	job.Tries++
	if err := q.sender.Send(job); err != nil {
		logger.Warn("email delivery failed", "kind", job.Kind, "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			q.retry(ctx, job)
		} else {
			metrics.RecordEmail(job.Kind, "failed")
			q.saveFailed(ctx, job, err)
		}
		return nil
	}

	metrics.RecordEmail(job.Kind, "success")
	logger.Info("email sent", "kind", job.Kind, "to", job.To)
	return nil
}

func (q *Queue) retry(ctx context.Context, job EmailJob) {
	if q.retryDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(q.retryDelay):
		}
	}

	data, _ := json.Marshal(job)
	// ctx may be cancelled by now; the job must not be lost on shutdown.
	if err := q.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to requeue email", "to", job.To, "error", err)
	}
}

func (q *Queue) saveFailed(ctx context.Context, job EmailJob, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := q.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data)).Err(); err != nil {
		logger.Error("failed to record failed email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "kind", job.Kind, "to", job.To)
}

// QueueLength reports and exports the number of pending jobs. The gauge
// keeps its last value while Redis is unreachable.
func (q *Queue) QueueLength(ctx context.Context) int64 {
	length, err := q.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (q *Queue) Close() error {
	return q.redis.Close()
}
