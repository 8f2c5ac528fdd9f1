package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/warfroggy/clashlens/internal/adapters/mq/queue"
	"github.com/warfroggy/clashlens/internal/adapters/mq/worker"
	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []string
	fail  map[string]error
}

func (s *recordingSaver) Save(_ context.Context, playerTag string, row model.RawSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[row.ID]; ok {
		return err
	}
	s.saved = append(s.saved, playerTag+"/"+row.ID)
	return nil
}

func (s *recordingSaver) savedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

type recordingReleaser struct {
	mu       sync.Mutex
	released []string
}

func (r *recordingReleaser) Unrecord(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, id)
}

func (r *recordingReleaser) releasedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.released...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorkerPersistsTasks(t *testing.T) {
	Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16), queue.WithBufferSize(16))
		saver := &recordingSaver{}
		releaser := &recordingReleaser{}
		w := worker.NewInMemoryWorker(q, saver, releaser, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("When tasks are enqueued", func() {
			So(q.Enqueue(ctx, queue.Task{PlayerTag: "#P1", Row: model.RawSnapshot{ID: "r1"}}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Task{PlayerTag: "#P1", Row: model.RawSnapshot{ID: "r2"}}), ShouldBeTrue)

			Convey("Then every row reaches the store", func() {
				waitFor(t, func() bool { return len(saver.savedIDs()) == 2 })
				So(saver.savedIDs(), ShouldResemble, []string{"#P1/r1", "#P1/r2"})
				So(releaser.releasedIDs(), ShouldBeEmpty)
			})
		})
	})
}

func TestWorkerReleasesFailedRows(t *testing.T) {
	Convey("Given a store that rejects one row", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16), queue.WithBufferSize(16))
		saver := &recordingSaver{fail: map[string]error{"bad": errors.New("disk full")}}
		releaser := &recordingReleaser{}
		w := worker.NewInMemoryWorker(q, saver, releaser)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("When the failing row flows through", func() {
			So(q.Enqueue(ctx, queue.Task{PlayerTag: "#P1", Row: model.RawSnapshot{ID: "bad"}}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Task{PlayerTag: "#P1", Row: model.RawSnapshot{ID: "good"}}), ShouldBeTrue)

			Convey("Then its ID is released for resubmission and others still save", func() {
				waitFor(t, func() bool { return len(saver.savedIDs()) == 1 })
				waitFor(t, func() bool { return len(releaser.releasedIDs()) == 1 })
				So(releaser.releasedIDs(), ShouldResemble, []string{"bad"})
				So(saver.savedIDs(), ShouldResemble, []string{"#P1/good"})
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4), queue.WithBufferSize(4))
		w := worker.NewInMemoryWorker(q, &recordingSaver{}, nil)

		ctx := context.Background()
		go w.Run(ctx)

		Convey("When shutdown is requested", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			Convey("Then it stops within the deadline", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPoolDrainsQueueOnShutdown(t *testing.T) {
	Convey("Given a started pool", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64), queue.WithBufferSize(64))
		saver := &recordingSaver{}
		pool := worker.NewPool(3, q, saver, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		Convey("When tasks are enqueued and the pool shuts down", func() {
			for _, id := range []string{"a", "b", "c", "d", "e"} {
				So(q.Enqueue(ctx, queue.Task{PlayerTag: "#P1", Row: model.RawSnapshot{ID: id}}), ShouldBeTrue)
			}
			So(pool.Shutdown(ctx), ShouldBeNil)

			Convey("Then all buffered tasks were persisted", func() {
				So(saver.savedIDs(), ShouldHaveLength, 5)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
