package http

import (
	"time"

	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/pkg/errs"
)

// ActorDTO names a user on the request side and in responses.
type ActorDTO struct {
	ID       int64  `json:"id"`
	SystemID string `json:"systemId"`
}

func (a *ActorDTO) toDomain() (*kernel.Actor, error) {
	if a == nil {
		return nil, nil //nolint:nilnil // an absent actor defaults to the authenticated one
	}
	actor, err := kernel.NewActor(a.ID, a.SystemID)
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func actorDTO(a *kernel.Actor) *ActorDTO {
	if a == nil {
		return nil
	}
	return &ActorDTO{ID: a.ID(), SystemID: a.SystemID()}
}

// DosageDTO carries the drug-specific fields of an order.
type DosageDTO struct {
	Dose      float64 `json:"dose"`
	Units     string  `json:"units"`
	Frequency string  `json:"frequency,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
}

// CreateOrderRequest is the body of POST /orders. An empty uuid is generated.
type CreateOrderRequest struct {
	UUID         string     `json:"uuid"`
	Patient      string     `json:"patient"`
	Concept      int64      `json:"concept"`
	Instructions string     `json:"instructions"`
	Dosage       *DosageDTO `json:"dosage"`
}

// SignAndActivateRequest may be empty; missing fields fall back to the
// authenticated actor and now.
type SignAndActivateRequest struct {
	Actor *ActorDTO  `json:"actor"`
	At    *time.Time `json:"at"`
}

// DiscontinueRequest carries the coded reason and an optional stop time.
type DiscontinueRequest struct {
	Reason int64      `json:"reason"`
	At     *time.Time `json:"at"`
}

// FillRequest sets exactly one of Filler and FillerActor.
type FillRequest struct {
	Filler      string     `json:"filler"`
	FillerActor *ActorDTO  `json:"fillerActor"`
	At          *time.Time `json:"at"`
}

// VoidRequest is shared by order and group voids.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// CreateOrderGroupRequest lists member order uuids in group order.
type CreateOrderGroupRequest struct {
	UUID    string     `json:"uuid"`
	Patient string     `json:"patient"`
	Members []string   `json:"members"`
	Actor   *ActorDTO  `json:"actor"`
	At      *time.Time `json:"at"`
}

// CreateOrderTypeRequest is the body of POST /order-types.
type CreateOrderTypeRequest struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RetireOrderTypeRequest with an empty reason unretires.
type RetireOrderTypeRequest struct {
	Reason string `json:"reason"`
}

// OrderResponse is the JSON view of an order. Optional fields are omitted
// until the matching transition happens.
type OrderResponse struct {
	ID                 int64      `json:"id"`
	UUID               string     `json:"uuid"`
	OrderNumber        string     `json:"orderNumber"`
	Patient            string     `json:"patient"`
	Concept            int64      `json:"concept"`
	Action             string     `json:"action"`
	Kind               string     `json:"kind"`
	Stage              string     `json:"stage"`
	Instructions       string     `json:"instructions,omitempty"`
	Dosage             *DosageDTO `json:"dosage,omitempty"`
	Discontinues       string     `json:"discontinues,omitempty"`
	SignedBy           *ActorDTO  `json:"signedBy,omitempty"`
	DateSigned         *time.Time `json:"dateSigned,omitempty"`
	ActivatedBy        *ActorDTO  `json:"activatedBy,omitempty"`
	DateActivated      *time.Time `json:"dateActivated,omitempty"`
	DateFilled         *time.Time `json:"dateFilled,omitempty"`
	Filler             string     `json:"filler,omitempty"`
	Discontinued       bool       `json:"discontinued"`
	DateDiscontinued   *time.Time `json:"dateDiscontinued,omitempty"`
	DiscontinuedReason int64      `json:"discontinuedReason,omitempty"`
	DiscontinuedBy     *ActorDTO  `json:"discontinuedBy,omitempty"`
	Voided             bool       `json:"voided"`
	VoidReason         string     `json:"voidReason,omitempty"`
	VoidedBy           *ActorDTO  `json:"voidedBy,omitempty"`
	DateVoided         *time.Time `json:"dateVoided,omitempty"`
}

func orderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID(),
		UUID:               o.UUID().String(),
		OrderNumber:        o.OrderNumber(),
		Patient:            o.Patient().String(),
		Concept:            int64(o.Concept()),
		Action:             o.Action().String(),
		Kind:               o.Kind().String(),
		Stage:              o.Stage().String(),
		Instructions:       o.Instructions(),
		SignedBy:           actorDTO(o.SignedBy()),
		DateSigned:         o.DateSigned(),
		ActivatedBy:        actorDTO(o.ActivatedBy()),
		DateActivated:      o.DateActivated(),
		DateFilled:         o.DateFilled(),
		Filler:             o.Filler(),
		Discontinued:       o.Discontinued(),
		DateDiscontinued:   o.DateDiscontinued(),
		DiscontinuedReason: int64(o.DiscontinuedReason()),
		DiscontinuedBy:     actorDTO(o.DiscontinuedBy()),
		Voided:             o.IsVoided(),
		VoidReason:         o.VoidReason(),
		VoidedBy:           actorDTO(o.VoidedBy()),
		DateVoided:         o.DateVoided(),
	}
	if d, ok := o.Dosage(); ok {
		resp.Dosage = &DosageDTO{Dose: d.Dose(), Units: d.Units(), Frequency: d.Frequency(), Quantity: d.Quantity()}
	}
	if ref := o.Discontinues(); ref != nil {
		resp.Discontinues = ref.String()
	}
	return resp
}

// OrderGroupResponse embeds full member orders.
type OrderGroupResponse struct {
	ID         int64           `json:"id"`
	UUID       string          `json:"uuid"`
	Patient    string          `json:"patient"`
	Members    []OrderResponse `json:"members"`
	Voided     bool            `json:"voided"`
	VoidReason string          `json:"voidReason,omitempty"`
}

func orderGroupResponse(g *ordergroup.OrderGroup) OrderGroupResponse {
	members := make([]OrderResponse, 0, len(g.Members()))
	for _, m := range g.Members() {
		members = append(members, orderResponse(m))
	}
	return OrderGroupResponse{
		ID:         g.ID(),
		UUID:       g.UUID().String(),
		Patient:    g.Patient().String(),
		Members:    members,
		Voided:     g.IsVoided(),
		VoidReason: g.VoidReason(),
	}
}

// OrderTypeResponse is the JSON view of an order type.
type OrderTypeResponse struct {
	ID           int64  `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Retired      bool   `json:"retired"`
	RetireReason string `json:"retireReason,omitempty"`
}

func orderTypeResponse(t *ordertype.OrderType) OrderTypeResponse {
	return OrderTypeResponse{
		ID:           t.ID(),
		UUID:         t.UUID().String(),
		Name:         t.Name(),
		Description:  t.Description(),
		Retired:      t.IsRetired(),
		RetireReason: t.RetireReason(),
	}
}

// ActiveOrderResponse is the slim row returned by the active orders endpoint.
type ActiveOrderResponse struct {
	ID            int64     `json:"id"`
	UUID          string    `json:"uuid"`
	OrderNumber   string    `json:"orderNumber"`
	Concept       int64     `json:"concept"`
	Kind          string    `json:"kind"`
	Instructions  string    `json:"instructions,omitempty"`
	DateActivated time.Time `json:"dateActivated"`
}

func activeOrderResponse(r queries.GetActiveOrdersQueryResponse) ActiveOrderResponse {
	return ActiveOrderResponse{
		ID:            r.ID,
		UUID:          r.UUID.String(),
		OrderNumber:   r.OrderNumber,
		Concept:       int64(r.Concept),
		Kind:          r.Kind.String(),
		Instructions:  r.Instructions,
		DateActivated: r.DateActivated,
	}
}

// uuidOrNew parses s, or generates a uuid when s is empty.
func uuidOrNew(param, s string) (kernel.UUID, error) {
	if s == "" {
		return kernel.NewUUID(), nil
	}
	return parseUUID(param, s)
}

// parseUUID reports a malformed value as an invalid param.
func parseUUID(param, s string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}
