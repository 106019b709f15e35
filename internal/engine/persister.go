package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
)

// ProfileSaver is the write side of the profile store.
type ProfileSaver interface {
	SaveAccount(ctx context.Context, id domain.AccountID, patch domain.ProfilePatch) error
}

// SaveReason tags a save job in logs.
type SaveReason string

const (
	SaveOnKill       SaveReason = "kill"
	SaveOnRequest    SaveReason = "request"
	SaveOnDisconnect SaveReason = "disconnect"
	SaveOnShutdown   SaveReason = "shutdown"
)

// SaveJob is one queued profile write.
type SaveJob struct {
	Account domain.AccountID
	Session domain.SessionID
	Reason  SaveReason
	Patch   domain.ProfilePatch

	// Done, when set, is called from a worker with the outcome.
	Done func(err error)
}

// Persistence accepts save jobs without blocking the caller.
type Persistence interface {
	Enqueue(job SaveJob) bool
}

// Persister drains save jobs on background workers. Each account is pinned
// to one worker, so saves of the same account commit in queue order while
// different accounts save in parallel. Failures are logged and never retried.
// In-memory state is never rolled back.
type Persister struct {
	store   ProfileSaver
	queues  []chan SaveJob
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPersister starts workers goroutines. queueSize is split evenly between
// the workers' queues.
func NewPersister(store ProfileSaver, queueSize, workers int, timeout time.Duration) *Persister {
	if workers < 1 {
		workers = 1
	}
	perWorker := (queueSize + workers - 1) / workers
	if perWorker < 1 {
		perWorker = 1
	}
	p := &Persister{
		store:   store,
		queues:  make([]chan SaveJob, workers),
		timeout: timeout,
	}
	for i := range p.queues {
		p.queues[i] = make(chan SaveJob, perWorker)
		p.wg.Add(1)
		go p.worker(i, p.queues[i])
	}
	return p
}

// shard picks the queue owning the account.
func (p *Persister) shard(id domain.AccountID) chan SaveJob {
	return p.queues[xxhash.Sum64String(string(id))%uint64(len(p.queues))]
}

// Enqueue never blocks. A full or closed queue drops the job and returns false.
func (p *Persister) Enqueue(job SaveJob) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	select {
	case p.shard(job.Account) <- job:
		return true
	default:
		logger.Component("persister").WithFields(logrus.Fields{
			"account_id": job.Account,
			"reason":     job.Reason,
		}).Warn("Save queue full, job dropped.")
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Persister) worker(n int, queue <-chan SaveJob) {
	defer p.wg.Done()
	for job := range queue {
		err := p.run(job)
		if job.Done != nil {
			job.Done(err)
		}
	}
	logger.Component("persister").WithField("worker", n).Debug("Save worker stopped.")
}

func (p *Persister) run(job SaveJob) error {
	log := logger.Component("persister").WithFields(logrus.Fields{
		"account_id": job.Account,
		"session_id": job.Session,
		"reason":     job.Reason,
		"fields":     job.Patch.Fields(),
	})

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.store.SaveAccount(ctx, job.Account, job.Patch); err != nil {
		wrapped := fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		log.WithError(err).Error("Profile save failed.")
		return wrapped
	}
	log.Debug("Profile saved.")
	return nil
}
