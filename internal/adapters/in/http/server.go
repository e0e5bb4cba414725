// Package http exposes the order lifecycle over a JSON API built on echo.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ActiveOrdersReader is implemented by the postgres and in-memory active
// orders query handlers.
type ActiveOrdersReader interface {
	Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
}

// Clock supplies the default as-of time for the active orders endpoint.
type Clock interface {
	Now() time.Time
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder          commands.CreateOrderCommandHandler
	SignAndActivateOrder commands.SignAndActivateOrderCommandHandler
	DiscontinueOrder     commands.DiscontinueOrderCommandHandler
	FillOrder            commands.FillOrderCommandHandler
	VoidOrder            commands.VoidOrderCommandHandler
	UnvoidOrder          commands.UnvoidOrderCommandHandler
	PurgeOrder           commands.PurgeOrderCommandHandler
	CreateOrderGroup     commands.CreateOrderGroupCommandHandler
	VoidOrderGroup       commands.VoidOrderGroupCommandHandler
	UnvoidOrderGroup     commands.UnvoidOrderGroupCommandHandler
	CreateOrderType      commands.CreateOrderTypeCommandHandler
	RetireOrderType      commands.RetireOrderTypeCommandHandler
	PurgeOrderType       commands.PurgeOrderTypeCommandHandler

	GetOrder        queries.GetOrderQueryHandler
	GetOrderGroups  queries.GetOrderGroupsQueryHandler
	GetOrderTypes   queries.GetOrderTypesQueryHandler
	GetActiveOrders ActiveOrdersReader
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	clock  Clock
	logger *slog.Logger
}

// NewServer creates a server dispatching to h. clock supplies the default asOf
// of the active orders endpoint; logger receives one line per failed request.
func NewServer(h Handlers, clock Clock, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		clock:  clock,
		logger: logger.With("component", "http"),
	}
}

// NewRouter builds the echo instance with middleware, API routes, /health
// and, when metrics is not nil, /metrics.
func NewRouter(s *Server, metrics http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(RequestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	api := e.Group("/api/v1", ActorMiddleware())
	s.Register(api)
	return e
}

// Register mounts the API routes on g, normally the /api/v1 group.
func (s *Server) Register(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders/:uuid", s.GetOrder)
	g.GET("/orders/by-number/:number", s.GetOrderByNumber)
	g.POST("/orders/:uuid/sign-and-activate", s.SignAndActivateOrder)
	g.POST("/orders/:uuid/discontinue", s.DiscontinueOrder)
	g.POST("/orders/:uuid/fill", s.FillOrder)
	g.POST("/orders/:uuid/void", s.VoidOrder)
	g.POST("/orders/:uuid/unvoid", s.UnvoidOrder)
	g.DELETE("/orders/:uuid", s.PurgeOrder)

	g.POST("/order-groups", s.CreateOrderGroup)
	g.POST("/order-groups/:uuid/void", s.VoidOrderGroup)
	g.POST("/order-groups/:uuid/unvoid", s.UnvoidOrderGroup)
	g.GET("/patients/:patient/order-groups", s.GetOrderGroups)
	g.GET("/patients/:patient/active-orders", s.GetActiveOrders)

	g.POST("/order-types", s.CreateOrderType)
	g.GET("/order-types", s.GetOrderTypes)
	g.POST("/order-types/:uuid/retire", s.RetireOrderType)
	g.DELETE("/order-types/:uuid", s.PurgeOrderType)
}

// CreateOrder handles POST /api/v1/orders. A dosage makes it a drug order.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, err)
	}

	orderID, err := uuidOrNew("uuid", req.UUID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	patient, err := parseUUID("patient", req.Patient)
	if err != nil {
		return s.errorResponse(c, err)
	}

	var dosage *order.Dosage
	if req.Dosage != nil {
		d, dosageErr := order.NewDosage(req.Dosage.Dose, req.Dosage.Units, req.Dosage.Frequency, req.Dosage.Quantity)
		if dosageErr != nil {
			return s.errorResponse(c, dosageErr)
		}
		dosage = &d
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, patient, kernel.ConceptID(req.Concept), req.Instructions, dosage)
	if err != nil {
		return s.errorResponse(c, err)
	}

	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, orderResponse(created))
}

// GetOrder handles GET /api/v1/orders/:uuid - retrieves one order.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := parseUUID("uuid", c.Param("uuid"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return s.respondOrder(c, query)
}

// GetOrderByNumber handles GET /api/v1/orders/by-number/:number - retrieves one
// order by its order number.
func (s *Server) GetOrderByNumber(c echo.Context) error {
	query, err := queries.NewGetOrderByNumberQuery(c.Param("number"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return s.respondOrder(c, query)
}

func (s *Server) respondOrder(c echo.Context, query queries.GetOrderQuery) error {
	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// SignAndActivateOrder handles POST /api/v1/orders/:uuid/sign-and-activate.
// Without an actor in the body the authenticated actor signs.
func (s *Server) SignAndActivateOrder(c echo.Context) error {
	var req SignAndActivateRequest
	orderID, err := s.bindWithOrderID(c, &req)
	if err != nil {
		return s.errorResponse(c, err)
	}
	actor, err := req.Actor.toDomain()
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewSignAndActivateOrderCommand(orderID, actor, req.At)
	if err != nil {
		return s.errorResponse(c, err)
	}
	o, err := s.h.SignAndActivateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// DiscontinueOrder handles POST /api/v1/orders/:uuid/discontinue - stops an
// active order with a coded reason.
func (s *Server) DiscontinueOrder(c echo.Context) error {
	var req DiscontinueRequest
	orderID, err := s.bindWithOrderID(c, &req)
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewDiscontinueOrderCommand(orderID, kernel.ConceptID(req.Reason), req.At)
	if err != nil {
		return s.errorResponse(c, err)
	}
	o, err := s.h.DiscontinueOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// FillOrder takes either a free-text filler or a filler actor.
func (s *Server) FillOrder(c echo.Context) error {
	var req FillRequest
	orderID, err := s.bindWithOrderID(c, &req)
	if err != nil {
		return s.errorResponse(c, err)
	}
	fillerActor, err := req.FillerActor.toDomain()
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewFillOrderCommand(orderID, req.Filler, fillerActor, req.At)
	if err != nil {
		return s.errorResponse(c, err)
	}
	o, err := s.h.FillOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// VoidOrder handles POST /api/v1/orders/:uuid/void. The reason is required.
func (s *Server) VoidOrder(c echo.Context) error {
	var req VoidRequest
	orderID, err := s.bindWithOrderID(c, &req)
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewVoidOrderCommand(orderID, req.Reason)
	if err != nil {
		return s.errorResponse(c, err)
	}
	o, err := s.h.VoidOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// UnvoidOrder handles POST /api/v1/orders/:uuid/unvoid.
func (s *Server) UnvoidOrder(c echo.Context) error {
	orderID, err := parseUUID("uuid", c.Param("uuid"))
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewUnvoidOrderCommand(orderID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	o, err := s.h.UnvoidOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// PurgeOrder handles DELETE /api/v1/orders/:uuid?cascade=false.
// A cascading purge is answered with 501.
func (s *Server) PurgeOrder(c echo.Context) error {
	orderID, err := parseUUID("uuid", c.Param("uuid"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	cascade, err := boolQueryParam(c, "cascade")
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewPurgeOrderCommand(orderID, cascade)
	if err != nil {
		return s.errorResponse(c, err)
	}
	if err = s.h.PurgeOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateOrderGroup signs and activates the listed orders as one group.
func (s *Server) CreateOrderGroup(c echo.Context) error {
	var req CreateOrderGroupRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, err)
	}

	groupID, err := uuidOrNew("uuid", req.UUID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	patient, err := parseUUID("patient", req.Patient)
	if err != nil {
		return s.errorResponse(c, err)
	}
	members := make([]kernel.UUID, 0, len(req.Members))
	for _, raw := range req.Members {
		id, parseErr := parseUUID("members", raw)
		if parseErr != nil {
			return s.errorResponse(c, parseErr)
		}
		members = append(members, id)
	}
	actor, err := req.Actor.toDomain()
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewCreateOrderGroupCommand(groupID, patient, members, actor, req.At)
	if err != nil {
		return s.errorResponse(c, err)
	}
	g, err := s.h.CreateOrderGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, orderGroupResponse(g))
}

// VoidOrderGroup voids the group only; member orders keep their own state.
func (s *Server) VoidOrderGroup(c echo.Context) error {
	var req VoidRequest
	groupID, err := s.bindWithOrderID(c, &req)
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewVoidOrderGroupCommand(groupID, req.Reason)
	if err != nil {
		return s.errorResponse(c, err)
	}
	g, err := s.h.VoidOrderGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderGroupResponse(g))
}

// UnvoidOrderGroup handles POST /api/v1/order-groups/:uuid/unvoid.
func (s *Server) UnvoidOrderGroup(c echo.Context) error {
	groupID, err := parseUUID("uuid", c.Param("uuid"))
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewUnvoidOrderGroupCommand(groupID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	g, err := s.h.UnvoidOrderGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderGroupResponse(g))
}

// GetOrderGroups handles GET /api/v1/patients/:patient/order-groups - lists the
// patient's groups with their members.
func (s *Server) GetOrderGroups(c echo.Context) error {
	patient, err := parseUUID("patient", c.Param("patient"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	query, err := queries.NewGetOrderGroupsQuery(patient)
	if err != nil {
		return s.errorResponse(c, err)
	}

	groups, err := s.h.GetOrderGroups.Handle(c.Request().Context(), query)
	if err != nil {
		return s.errorResponse(c, err)
	}

	response := make([]OrderGroupResponse, len(groups))
	for i, g := range groups {
		response[i] = orderGroupResponse(g)
	}
	return c.JSON(http.StatusOK, response)
}

// GetActiveOrders handles GET /api/v1/patients/:patient/active-orders.
// asOf is RFC 3339 and defaults to now.
func (s *Server) GetActiveOrders(c echo.Context) error {
	patient, err := parseUUID("patient", c.Param("patient"))
	if err != nil {
		return s.errorResponse(c, err)
	}

	asOf := s.clock.Now()
	if raw := c.QueryParam("asOf"); raw != "" {
		asOf, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return s.errorResponse(c, echo.NewHTTPError(http.StatusBadRequest, "asOf must be an RFC 3339 timestamp"))
		}
	}

	query, err := queries.NewGetActiveOrdersQuery(patient, asOf)
	if err != nil {
		return s.errorResponse(c, err)
	}
	orders, err := s.h.GetActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.errorResponse(c, err)
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = activeOrderResponse(o)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateOrderType handles POST /api/v1/order-types - creates an order type.
// The uuid is generated when the body leaves it out.
func (s *Server) CreateOrderType(c echo.Context) error {
	var req CreateOrderTypeRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, err)
	}
	id, err := uuidOrNew("uuid", req.UUID)
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewCreateOrderTypeCommand(id, req.Name, req.Description)
	if err != nil {
		return s.errorResponse(c, err)
	}
	t, err := s.h.CreateOrderType.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, orderTypeResponse(t))
}

// GetOrderTypes handles GET /api/v1/order-types?includeRetired=true.
func (s *Server) GetOrderTypes(c echo.Context) error {
	includeRetired, err := boolQueryParam(c, "includeRetired")
	if err != nil {
		return s.errorResponse(c, err)
	}

	types, err := s.h.GetOrderTypes.Handle(c.Request().Context(), queries.NewGetOrderTypesQuery(includeRetired))
	if err != nil {
		return s.errorResponse(c, err)
	}

	response := make([]OrderTypeResponse, len(types))
	for i, t := range types {
		response[i] = orderTypeResponse(t)
	}
	return c.JSON(http.StatusOK, response)
}

// RetireOrderType handles POST /api/v1/order-types/:uuid/retire. An empty reason
// unretires the order type.
func (s *Server) RetireOrderType(c echo.Context) error {
	var req RetireOrderTypeRequest
	id, err := s.bindWithOrderID(c, &req)
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewRetireOrderTypeCommand(id, req.Reason)
	if err != nil {
		return s.errorResponse(c, err)
	}
	t, err := s.h.RetireOrderType.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, orderTypeResponse(t))
}

// PurgeOrderType handles DELETE /api/v1/order-types/:uuid - answers 204.
func (s *Server) PurgeOrderType(c echo.Context) error {
	id, err := parseUUID("uuid", c.Param("uuid"))
	if err != nil {
		return s.errorResponse(c, err)
	}

	cmd, err := commands.NewPurgeOrderTypeCommand(id)
	if err != nil {
		return s.errorResponse(c, err)
	}
	if err = s.h.PurgeOrderType.Handle(c.Request().Context(), cmd); err != nil {
		return s.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// boolQueryParam reads an optional boolean query parameter; absent means false.
func boolQueryParam(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, name+" must be a boolean")
	}
	return v, nil
}

// bindWithOrderID binds an optional JSON body and parses the :uuid path parameter.
func (s *Server) bindWithOrderID(c echo.Context, req any) (kernel.UUID, error) {
	if c.Request().ContentLength != 0 {
		if err := c.Bind(req); err != nil {
			return kernel.UUID{}, err
		}
	}
	return parseUUID("uuid", c.Param("uuid"))
}
