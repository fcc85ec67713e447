package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/obsnode/internal/api/models"
	"github.com/smazurov/obsnode/internal/engine"
	"github.com/smazurov/obsnode/internal/session"
)

// registerEngineRoutes registers engine lifecycle and configuration endpoints
func (s *Server) registerEngineRoutes() {
	// Engine status
	huma.Register(s.api, huma.Operation{
		OperationID: "get-engine-status",
		Method:      http.MethodGet,
		Path:        "/api/engine",
		Summary:     "Engine Status",
		Description: "Get engine initialization state, version and session state",
		Tags:        []string{"engine"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.EngineStatusResponse, error) {
		status := s.sessions.Status()
		return &models.EngineStatusResponse{
			Body: models.EngineStatusData{
				Initialized:  status.Initialized,
				Version:      status.Version,
				SessionState: string(status.SessionState),
			},
		}, nil
	})

	// Initialize the engine core
	huma.Register(s.api, huma.Operation{
		OperationID: "initialize-engine",
		Method:      http.MethodPost,
		Path:        "/api/engine/initialize",
		Summary:     "Initialize Engine",
		Description: "Start the engine core, load modules and resolve the engine version",
		Tags:        []string{"engine"},
		Errors:      []int{401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.InitializeRequest) (*models.CommandResponse, error) {
		return s.awaitCommand(ctx, s.sessions.Initialize())
	})

	// Shut the engine core down
	huma.Register(s.api, huma.Operation{
		OperationID: "shutdown-engine",
		Method:      http.MethodPost,
		Path:        "/api/engine/shutdown",
		Summary:     "Shutdown Engine",
		Description: "Tear the engine core down. Rejected while a streaming session is active.",
		Tags:        []string{"engine"},
		Errors:      []int{401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.CommandResponse, error) {
		return s.awaitCommand(ctx, s.sessions.Shutdown())
	})

	// Replace the base video configuration
	huma.Register(s.api, huma.Operation{
		OperationID: "reset-video",
		Method:      http.MethodPut,
		Path:        "/api/engine/video",
		Summary:     "Reset Video",
		Description: "Replace the engine's base video configuration. The payload echoes the applied canvas size.",
		Tags:        []string{"engine"},
		Errors:      []int{401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.VideoResetRequest) (*models.CommandResponse, error) {
		return s.awaitCommand(ctx, s.sessions.ResetVideo(input.Body.Size))
	})

	// Replace the base audio configuration
	huma.Register(s.api, huma.Operation{
		OperationID: "reset-audio",
		Method:      http.MethodPut,
		Path:        "/api/engine/audio",
		Summary:     "Reset Audio",
		Description: "Replace the engine's base audio configuration. The payload echoes the applied speaker layout.",
		Tags:        []string{"engine"},
		Errors:      []int{401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.AudioResetRequest) (*models.CommandResponse, error) {
		return s.awaitCommand(ctx, s.sessions.ResetAudio(input.Body.Speakers))
	})

	// Enumerate live encoder handles
	huma.Register(s.api, huma.Operation{
		OperationID: "list-codecs",
		Method:      http.MethodGet,
		Path:        "/api/engine/codecs",
		Summary:     "List Codecs",
		Description: "List the engine's live encoder handles. Returns a sentinel message before initialization.",
		Tags:        []string{"engine"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.EnumerationResponse, error) {
		return &models.EnumerationResponse{
			Body: models.EnumerationData{Items: s.sessions.Codecs()},
		}, nil
	})

	// Enumerate live output handles
	huma.Register(s.api, huma.Operation{
		OperationID: "list-outputs",
		Method:      http.MethodGet,
		Path:        "/api/engine/outputs",
		Summary:     "List Outputs",
		Description: "List the engine's live output handles. Returns a sentinel message before initialization.",
		Tags:        []string{"engine"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.EnumerationResponse, error) {
		return &models.EnumerationResponse{
			Body: models.EnumerationData{Items: s.sessions.Outputs()},
		}, nil
	})
}

// awaitCommand resolves a queued engine command and maps its result to the
// common response shape.
func (s *Server) awaitCommand(ctx context.Context, f *session.Future) (*models.CommandResponse, error) {
	payload, err := f.Await(ctx)
	if err != nil {
		return nil, s.mapEngineError(err)
	}
	return &models.CommandResponse{
		Body: models.CommandData{
			Status:  "success",
			Payload: payload,
		},
	}, nil
}

// mapEngineError maps domain errors to HTTP errors
func (s *Server) mapEngineError(err error) error {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		switch engErr.Code {
		case engine.ErrCodeNotInitialized, engine.ErrCodeAlreadyInitialized,
			engine.ErrCodeSessionActive, engine.ErrCodeSessionNotActive:
			return huma.Error409Conflict(engErr.Message, err)
		case engine.ErrCodeInvalidParams:
			return huma.Error400BadRequest(engErr.Message, err)
		case engine.ErrCodeStartupFailed, engine.ErrCodeResourceCreateFailed, engine.ErrCodeNativeCallFailed:
			return huma.Error500InternalServerError(engErr.Message, err)
		default:
			return huma.Error500InternalServerError("internal server error", err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
