package engine

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

func TestMain(m *testing.M) {
	logger.Init("error", "text")
	os.Exit(m.Run())
}

// recordingRelay keeps every published event.
type recordingRelay struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingRelay) Publish(evt domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingRelay) ofKind(kind domain.EventKind) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// recordingPersistence acknowledges jobs synchronously.
type recordingPersistence struct {
	mu   sync.Mutex
	jobs []SaveJob
	err  error
}

func (p *recordingPersistence) Enqueue(job SaveJob) bool {
	p.mu.Lock()
	p.jobs = append(p.jobs, job)
	err := p.err
	p.mu.Unlock()
	if job.Done != nil {
		job.Done(err)
	}
	return true
}

func (p *recordingPersistence) saved() []SaveJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SaveJob, len(p.jobs))
	copy(out, p.jobs)
	return out
}

func testConfig(normals, bosses int) Config {
	return Config{
		Source:        utils.NewSequence(0),
		MonsterCount:  normals,
		BossCount:     bosses,
		CommandBuffer: 16,
	}
}

// startService runs a service until the test ends.
func startService(t *testing.T, cfg Config) (*GameService, *recordingRelay, *recordingPersistence) {
	t.Helper()
	relay := &recordingRelay{}
	persist := &recordingPersistence{}
	svc := NewService(cfg, relay, persist)

	ctx, cancel := context.WithCancel(context.Background())
	go svc.Run(ctx)
	t.Cleanup(func() {
		cancel()
		select {
		case <-svc.Done():
		case <-time.After(2 * time.Second):
			t.Error("game loop did not stop")
		}
	})
	return svc, relay, persist
}

func submit(t *testing.T, svc *GameService, cmd domain.InternalCommand) {
	t.Helper()
	if err := svc.Submit(context.Background(), cmd); err != nil {
		t.Fatalf("Submit(%s): %v", cmd.Action, err)
	}
}

func inspect(t *testing.T, svc *GameService) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := svc.Inspect(ctx)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	return snap
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func intPtr(v int) *int { return &v }
