package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/obsnode/internal/api/models"
)

// registerSessionRoutes registers streaming session endpoints
func (s *Server) registerSessionRoutes() {
	// Start the streaming session
	huma.Register(s.api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/api/session/start",
		Summary:     "Start Session",
		Description: "Acquire the session resources and start streaming to the given target URL",
		Tags:        []string{"session"},
		Errors:      []int{400, 401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.SessionStartRequest) (*models.CommandResponse, error) {
		return s.awaitCommand(ctx, s.sessions.StartOutput(input.Body.Target))
	})

	// Stop the streaming session
	huma.Register(s.api, huma.Operation{
		OperationID: "stop-session",
		Method:      http.MethodPost,
		Path:        "/api/session/stop",
		Summary:     "Stop Session",
		Description: "Stop the running session and release its resources",
		Tags:        []string{"session"},
		Errors:      []int{401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.CommandResponse, error) {
		return s.awaitCommand(ctx, s.sessions.StopOutput())
	})
}
