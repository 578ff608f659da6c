//go:build cucumber

package waiter

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"asynctask/internal/build"
	"asynctask/internal/logevent"
	"asynctask/internal/session"
	"asynctask/internal/sink"
	"asynctask/internal/testutil"
	"asynctask/internal/unit"
)

// TestWaitingScenarios runs the waiting feature scenarios.
func TestWaitingScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "waiting", "waiting.feature")
	suite := godog.TestSuite{
		Name:                "waiting",
		ScenarioInitializer: InitializeWaitingScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeWaitingScenario wires steps for waiting scenarios.
func InitializeWaitingScenario(ctx *godog.ScenarioContext) {
	state := &waitingScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return ctx, state.bc.Close(closeCtx)
	})

	ctx.Step(`^a session with no units$`, state.givenNoUnits)
	ctx.Step(`^(\d+) quiet units in category "([^"]*)"$`, state.givenQuietUnits)
	ctx.Step(`^a unit in category "([^"]*)" that logs error "([^"]*)" with "([^"]*)"$`, state.givenFailingUnit)
	ctx.Step(`^I wait on categories "([^"]*)"$`, state.whenIWait)
	ctx.Step(`^the wait succeeds$`, state.thenSucceeds)
	ctx.Step(`^the wait fails$`, state.thenFails)
	ctx.Step(`^the owner reports "([^"]*)"$`, state.thenOwnerReports)
	ctx.Step(`^the sink received error "([^"]*)" with "([^"]*)"$`, state.thenSinkReceivedError)
	ctx.Step(`^the wait finished within (\d+) milliseconds$`, state.thenFinishedWithin)
}

type waitingScenarioState struct {
	rec     *testutil.RecordingSink
	bc      *build.Context
	result  bool
	elapsed time.Duration
}

// reset opens a fresh session for the scenario.
func (s *waitingScenarioState) reset() error {
	s.rec = &testutil.RecordingSink{}
	bc, err := build.Begin(session.NewHost(), sink.NewReporter(s.rec), build.Options{PollInterval: time.Millisecond})
	if err != nil {
		return err
	}
	s.bc = bc
	s.result = false
	s.elapsed = 0
	return nil
}

func (s *waitingScenarioState) givenNoUnits() error {
	return nil
}

func (s *waitingScenarioState) givenQuietUnits(count int, category string) error {
	for i := 0; i < count; i++ {
		_, err := s.bc.Start(fmt.Sprintf("%s-%d", category, i), category, func(context.Context, unit.Logger) error {
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *waitingScenarioState) givenFailingUnit(category, code, text string) error {
	_, err := s.bc.Start("failing", category, func(_ context.Context, log unit.Logger) error {
		log.CodedError(code, text)
		return nil
	})
	return err
}

func (s *waitingScenarioState) whenIWait(list string) error {
	w := Waiter{Categories: strings.Split(list, ",")}
	start := time.Now()
	s.result = w.Execute(context.Background(), s.bc)
	s.elapsed = time.Since(start)
	return nil
}

func (s *waitingScenarioState) thenSucceeds() error {
	if !s.result {
		return fmt.Errorf("expected the wait to succeed, events: %v", s.rec.Events())
	}
	return nil
}

func (s *waitingScenarioState) thenFails() error {
	if s.result {
		return fmt.Errorf("expected the wait to fail")
	}
	return nil
}

func (s *waitingScenarioState) thenOwnerReports(text string) error {
	if !slices.Contains(s.rec.Texts(logevent.KindMessage), text) {
		return fmt.Errorf("message %q not reported, got %v", text, s.rec.Texts(logevent.KindMessage))
	}
	return nil
}

func (s *waitingScenarioState) thenSinkReceivedError(code, text string) error {
	for _, event := range s.rec.Events() {
		if event.Kind == logevent.KindError && event.Code == code && event.Text == text {
			return nil
		}
	}
	return fmt.Errorf("error %s %q not delivered", code, text)
}

func (s *waitingScenarioState) thenFinishedWithin(ms int) error {
	if limit := time.Duration(ms) * time.Millisecond; s.elapsed > limit {
		return fmt.Errorf("wait took %s, limit %s", s.elapsed, limit)
	}
	return nil
}
