package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/mirola777/idempotent-charges/internal/domain"
)

// FakeGateway always succeeds with sequential ids: ch_1001, ch_1002, ...
type FakeGateway struct {
	mu      sync.Mutex
	counter int
	calls   int
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{counter: 1000}
}

func (g *FakeGateway) Charge(_ context.Context, _ domain.ChargeRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	g.counter++
	return fmt.Sprintf("ch_%d", g.counter), nil
}

func (g *FakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// FlakyGateway fails transiently for its first failTimes calls, then
// succeeds with ids starting at ch_2001.
type FlakyGateway struct {
	mu        sync.Mutex
	remaining int
	counter   int
	calls     int
}

func NewFlakyGateway(failTimes int) *FlakyGateway {
	return &FlakyGateway{remaining: failTimes, counter: 2000}
}

func (g *FlakyGateway) Charge(_ context.Context, _ domain.ChargeRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.remaining > 0 {
		g.remaining--
		return "", domain.NewTransientGatewayError("upstream timeout")
	}
	g.counter++
	return fmt.Sprintf("ch_%d", g.counter), nil
}

func (g *FlakyGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
