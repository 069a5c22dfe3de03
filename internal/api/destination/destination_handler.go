package destination

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderio/go-smart-destinations/internal/api"
	"github.com/wanderio/go-smart-destinations/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	FindDestinations(w http.ResponseWriter, r *http.Request)
	FindDestinationsAI(w http.ResponseWriter, r *http.Request)
	RefineDestinations(w http.ResponseWriter, r *http.Request)
	ExplainDestination(w http.ResponseWriter, r *http.Request)
	ListDestinations(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	destinationService Service
	logger             *slog.Logger
}

func NewHandlerImpl(destinationService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		destinationService: destinationService,
		logger:             logger,
	}
}

// FindDestinations godoc
// @Summary      Find Destinations
// @Description  Filters destinations by tags, companion, budget and season (popularity ordered, no AI)
// @Tags         Smart Destination
// @Accept       json
// @Produce      json
// @Router       /smart-destination/find [post]
func (h *HandlerImpl) FindDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "FindDestinations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/smart-destination/find"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "FindDestinations"))

	var req types.FindDestinationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.destinationService.FindDestinations(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to find destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to find destinations")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to find destinations")
		return
	}

	span.SetStatus(codes.Ok, "Destinations found")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// FindDestinationsAI godoc
// @Summary      Find Destinations (AI ranked)
// @Description  Filters destinations and ranks them with the generative model blended with deterministic signals
// @Tags         Smart Destination
// @Accept       json
// @Produce      json
// @Router       /smart-destination/find-ai [post]
func (h *HandlerImpl) FindDestinationsAI(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "FindDestinationsAI", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/smart-destination/find-ai"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "FindDestinationsAI"))

	var req types.FindDestinationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.destinationService.FindDestinationsAI(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to rank destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to rank destinations")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to rank destinations")
		return
	}

	span.SetStatus(codes.Ok, "Destinations ranked")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// RefineDestinations godoc
// @Summary      Refine Destinations
// @Description  Re-scores a previously returned ranking from a free-text instruction
// @Tags         Smart Destination
// @Accept       json
// @Produce      json
// @Router       /smart-destination/refine [post]
func (h *HandlerImpl) RefineDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "RefineDestinations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/smart-destination/refine"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RefineDestinations"))

	var req types.RefineDestinationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.PreviousResults) == 0 || req.Instruction == "" {
		span.SetStatus(codes.Error, "Missing required fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "previous_results and instruction are required")
		return
	}

	resp, err := h.destinationService.RefineDestinations(ctx, req)
	if err != nil {
		// Refinement is fail-loud: a silent fallback would misrepresent a
		// user-initiated adjustment.
		l.ErrorContext(ctx, "Refinement failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refinement failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "AI refinement failed")
		return
	}

	span.SetStatus(codes.Ok, "Destinations refined")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// ExplainDestination godoc
// @Summary      Explain Destination
// @Description  Generates (and caches) an explanation of why a destination fits a personality
// @Tags         Smart Destination
// @Accept       json
// @Produce      json
// @Router       /smart-destination/explain [post]
func (h *HandlerImpl) ExplainDestination(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "ExplainDestination", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/smart-destination/explain"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ExplainDestination"))

	var req types.ExplainDestinationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Destination == "" || req.Personality == "" {
		span.SetStatus(codes.Error, "Missing required fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "destination and personality are required")
		return
	}

	resp, err := h.destinationService.ExplainDestination(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Explanation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Explanation failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to generate explanation")
		return
	}

	span.SetStatus(codes.Ok, "Explanation generated")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// ListDestinations godoc
// @Summary      List Destinations
// @Description  Lists every destination in the store (diagnostic endpoint)
// @Tags         Smart Destination
// @Produce      json
// @Router       /smart-destination/test-smart [get]
func (h *HandlerImpl) ListDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "ListDestinations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/smart-destination/test-smart"),
	))
	defer span.End()

	destinations, err := h.destinationService.ListDestinations(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list destinations")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list destinations")
		return
	}

	span.SetStatus(codes.Ok, "Destinations listed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"count": len(destinations),
		"data":  destinations,
	})
}
