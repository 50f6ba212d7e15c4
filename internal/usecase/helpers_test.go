package usecase

import (
	"time"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/testutil"
)

const testUser = "u1"

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// fixture bundles the doubles most use case tests need.
type fixture struct {
	store   *testutil.MockStore
	clock   *testutil.MockClock
	logger  *testutil.MockLogger
	advisor *testutil.MockAdvisor
	engine  *domain.Engine
}

func newFixture() *fixture {
	clock := &testutil.MockClock{NowTime: testNow}
	return &fixture{
		store:   testutil.NewMockStore(),
		clock:   clock,
		logger:  &testutil.MockLogger{},
		advisor: &testutil.MockAdvisor{},
		engine:  domain.NewEngine(clock, testutil.SequentialIDs("id"), domain.DefaultTimerConfig()),
	}
}

// seed stores tasks for testUser in the given order.
func (f *fixture) seed(tasks ...domain.Task) {
	for i := range tasks {
		tasks[i].UserID = testUser
		tasks[i].Position = i
		if tasks[i].Date == "" {
			tasks[i].Date = domain.FormatDate(testNow)
		}
		if tasks[i].System == "" {
			tasks[i].System = domain.SystemCustom
		}
	}
	f.store.Tasks = append(f.store.Tasks, tasks...)
}

func (f *fixture) tasks() []domain.Task {
	return f.store.UserTasks(testUser)
}

func timed(id, text string, minutes int) domain.Task {
	return domain.Task{ID: id, Text: text, Duration: minutes * 60, Remaining: minutes * 60}
}

func ptr[T any](v T) *T {
	return &v
}
