package server

import (
	"context"
	nethttp "net/http"

	"HireAll/internal/service"

	"github.com/go-kratos/kratos/v2/transport/http"
)

// Operation names, used for middleware selection and logs.
const (
	OperationGetMonthlyUsage   = "/hireall.v1.UsageService/GetMonthlyUsage"
	OperationGetUsageReport    = "/hireall.v1.UsageService/GetUsageReport"
	OperationCheckFeature      = "/hireall.v1.UsageService/CheckFeature"
	OperationCheckExportFormat = "/hireall.v1.UsageService/CheckExportFormat"
	OperationGenerate          = "/hireall.v1.GenerationService/Generate"
	OperationAnalyzeCV         = "/hireall.v1.GenerationService/AnalyzeCV"
	OperationListCircuits      = "/hireall.v1.CircuitService/ListCircuits"
	OperationGetCircuit        = "/hireall.v1.CircuitService/GetCircuit"
	OperationResetCircuit      = "/hireall.v1.CircuitService/ResetCircuit"
)

func registerUsageRoutes(r *http.Router, s *service.UsageService) {
	r.GET("/users/{user_id}/usage", handle(OperationGetMonthlyUsage, false, s.GetMonthlyUsage))
	r.GET("/users/{user_id}/usage/report", handle(OperationGetUsageReport, false, s.GetUsageReport))
	r.POST("/users/{user_id}/features/{feature}/check", handle(OperationCheckFeature, false, s.CheckFeature))
	r.GET("/users/{user_id}/exports/{format}", handle(OperationCheckExportFormat, false, s.CheckExportFormat))
}

func registerGenerationRoutes(r *http.Router, s *service.GenerationService) {
	r.POST("/users/{user_id}/generations", handle(OperationGenerate, true, s.Generate))
	r.POST("/users/{user_id}/cv-analyses", handle(OperationAnalyzeCV, true, s.AnalyzeCV))
}

func registerCircuitRoutes(r *http.Router, s *service.CircuitService) {
	r.GET("/circuits", handle(OperationListCircuits, false, s.ListCircuits))
	r.GET("/circuits/{service}", handle(OperationGetCircuit, false, s.GetCircuit))
	r.POST("/circuits/{service}/reset", handle(OperationResetCircuit, false, s.ResetCircuit))
}

// handle adapts a service method to a route handler. Path variables are bound
// after the body so they always win.
func handle[Req, Reply any](operation string, withBody bool, fn func(context.Context, *Req) (*Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in Req
		if withBody {
			if err := ctx.Bind(&in); err != nil {
				return err
			}
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}
