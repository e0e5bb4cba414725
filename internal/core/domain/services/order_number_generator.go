package services

import (
	"context"
	"strconv"
	"strings"
)

// DefaultOrderNumberPrefix is used when no prefix is configured.
const DefaultOrderNumberPrefix = "ORDER-"

// MaximumOrderIDReader reads the highest persisted order id.
type MaximumOrderIDReader interface {
	GetMaximumOrderID(ctx context.Context) (int64, error)
}

// OrderNumberSettings supplies the configured prefix and deployment label.
type OrderNumberSettings interface {
	OrderNumberPrefix() string
	DeploymentLabel() string
}

// OrderNumberGenerator derives the next order number from the highest order id:
//
//	prefix + (max+1)               e.g. ORDER-42
//	label + "-" + prefix + (max+1) e.g. SITEA-ORDER-42
//
// It does not check uniqueness. Callers generate and save inside one
// transaction so the store can serialize concurrent generations.
type OrderNumberGenerator struct {
	settings OrderNumberSettings
}

// NewOrderNumberGenerator creates a generator reading prefix and label from settings.
func NewOrderNumberGenerator(settings OrderNumberSettings) OrderNumberGenerator {
	return OrderNumberGenerator{settings: settings}
}

// Generate returns the next order number. Store errors are returned unchanged.
func (g OrderNumberGenerator) Generate(ctx context.Context, orders MaximumOrderIDReader) (string, error) {
	maxID, err := orders.GetMaximumOrderID(ctx)
	if err != nil {
		return "", err
	}

	prefix := DefaultOrderNumberPrefix
	label := ""
	if g.settings != nil {
		if p := g.settings.OrderNumberPrefix(); p != "" {
			prefix = p
		}
		label = strings.TrimSpace(g.settings.DeploymentLabel())
	}

	number := prefix + strconv.FormatInt(maxID+1, 10)
	if label != "" {
		number = label + "-" + number
	}
	return number, nil
}
