// Package service adapts biz use cases to the HTTP transport: it owns the
// request and reply shapes and maps domain errors to Kratos errors.
package service

import "github.com/google/wire"

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewUsageService, NewCircuitService, NewGenerationService)
