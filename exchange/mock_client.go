package exchange

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

//
// Mock client for running the manager without a real market connection
//

// Ensure MockClient implements the Client interface.
var _ Client = (*MockClient)(nil)

// MockClient simulates a price feed with a sine wave around a base price and
// fills every buy immediately at the current simulated price.
type MockClient struct {
	mu          sync.RWMutex
	basePrice   map[string]float64
	amplitude   float64
	period      float64 // ticks per full sine cycle
	tick        map[string]float64
	nextOrderID int64
	fills       []Fill
}

// NewMockClient creates a simulator. Symbols not seeded via SetBasePrice
// default to a base price of 100.
func NewMockClient(amplitude, period float64) *MockClient {
	if period <= 0 {
		period = 60
	}
	return &MockClient{
		basePrice:   make(map[string]float64),
		amplitude:   amplitude,
		period:      period,
		tick:        make(map[string]float64),
		nextOrderID: 1,
	}
}

// SetBasePrice pins the center of the simulated wave for a symbol.
func (c *MockClient) SetBasePrice(symbol string, price uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basePrice[symbol] = float64(price)
	c.tick[symbol] = 0
}

// GetPrice advances the simulation one tick and returns the new price. The
// walk is deterministic, which keeps scenario runs reproducible.
func (c *MockClient) GetPrice(symbol string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base, ok := c.basePrice[symbol]
	if !ok {
		base = 100
		c.basePrice[symbol] = base
	}
	t := c.tick[symbol]
	c.tick[symbol] = t + 1

	price := base + c.amplitude*math.Sin(2*math.Pi*t/c.period)
	if price < 1 {
		price = 1
	}
	return uint64(math.Round(price)), nil
}

// Buy fills immediately at the last simulated price.
func (c *MockClient) Buy(ctx context.Context, symbol string, amount uint64) (*Fill, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	base, ok := c.basePrice[symbol]
	if !ok {
		base = 100
	}
	t := c.tick[symbol]
	price := base + c.amplitude*math.Sin(2*math.Pi*t/c.period)
	if price < 1 {
		price = 1
	}

	fill := Fill{
		OrderID: fmt.Sprintf("mock-%d", c.nextOrderID),
		Symbol:  symbol,
		Amount:  amount,
		Price:   uint64(math.Round(price)),
		Time:    time.Now().UTC(),
	}
	c.nextOrderID++
	c.fills = append(c.fills, fill)
	return &fill, nil
}

// Fills returns a copy of every fill the simulator has produced.
func (c *MockClient) Fills() []Fill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Fill, len(c.fills))
	copy(out, c.fills)
	return out
}
