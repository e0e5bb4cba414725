// Package lifecycle implements the order entry application services:
// OrderLifecycle, OrderGroupLifecycle and OrderTypeService.
//
// Services are built per unit of work from the repositories it exposes, so
// every read and write of one command shares a transaction. They hold no
// locks and cache nothing; each call works on the aggregate passed in.
//
// Sign and Activate persist through Save, which refuses orders the store
// already holds as activated. Discontinue, Fill, Void and Unvoid are
// bookkeeping writes that skip that check. Both kinds number an order on its
// first write, and a rejected transition leaves the aggregate unchanged.
package lifecycle
