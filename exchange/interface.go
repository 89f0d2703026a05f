package exchange

import (
	"context"
	"time"
)

// Fill describes an executed buy.
type Fill struct {
	OrderID string    `json:"orderId"`
	Symbol  string    `json:"symbol"`
	Amount  uint64    `json:"amount"`
	Price   uint64    `json:"price"`
	Time    time.Time `json:"time"`
}

// Client is the external market collaborator: a price feed plus a buy
// endpoint. The position manager only ever reads prices and, in simulation,
// asks for immediate mock fills; everything else an exchange offers is out
// of scope here.
type Client interface {
	// GetPrice returns the latest price for a symbol.
	GetPrice(symbol string) (uint64, error)

	// Buy submits a market buy for the given amount.
	Buy(ctx context.Context, symbol string, amount uint64) (*Fill, error)
}
