package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/warfroggy/clashlens/internal/adapters/mq/queue"
	"github.com/warfroggy/clashlens/internal/domain/model"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))
		ctx := context.Background()

		Convey("When a task is enqueued", func() {
			ok := q.Enqueue(ctx, queue.Task{PlayerTag: "#ABC", Row: model.RawSnapshot{ID: "r1"}})

			Convey("Then it is accepted and can be dequeued", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)

				select {
				case task := <-q.Dequeue(ctx):
					So(task.PlayerTag, ShouldEqual, "#ABC")
					So(task.Row.ID, ShouldEqual, "r1")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for task")
				}
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, queue.Task{Row: model.RawSnapshot{ID: fmt.Sprintf("r%d", i)}}), ShouldBeTrue)
			}

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, queue.Task{Row: model.RawSnapshot{ID: "overflow"}}), ShouldBeFalse)
			})
		})
	})
}

func TestQueueClose(t *testing.T) {
	Convey("Given a queue with a buffered task", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4), queue.WithBufferSize(4))
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Task{Row: model.RawSnapshot{ID: "pending"}}), ShouldBeTrue)

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new tasks", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Task{Row: model.RawSnapshot{ID: "late"}}), ShouldBeFalse)
			})

			Convey("And buffered tasks drain before the channel closes", func() {
				ch := q.Dequeue(ctx)

				task, ok := <-ch
				So(ok, ShouldBeTrue)
				So(task.Row.ID, ShouldEqual, "pending")

				_, ok = <-ch
				So(ok, ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
