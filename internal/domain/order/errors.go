package order

import "fmt"

// ErrIllegalTransition reports a warehouse-order status edge outside the DAG
type ErrIllegalTransition struct {
	OrderID string
	From    Status
	To      Status
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("warehouse order %s: illegal transition %s -> %s", e.OrderID, e.From, e.To)
}
