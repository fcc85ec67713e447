package session

import (
	"log/slog"
	"sync"

	"github.com/smazurov/obsnode/internal/engine"
	"github.com/smazurov/obsnode/internal/metrics"
)

// ResourceConfig selects the engine handle types used for one streaming
// session.
type ResourceConfig struct {
	VideoEncoderType string `toml:"video_encoder"`
	AudioEncoderType string `toml:"audio_encoder"`
	OutputType       string `toml:"output"`
	ServiceType      string `toml:"service"`
	ServiceKey       string `toml:"service_key"`
	AudioTrack       int    `toml:"audio_track"`
}

// DefaultResourceConfig returns the built-in handle types.
func DefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		VideoEncoderType: "com.apple.videotoolbox.videoencoder.h264.gva",
		AudioEncoderType: "adv_stream_aac",
		OutputType:       "rtmp_output",
		ServiceType:      "rtmp_common",
		AudioTrack:       0,
	}
}

// Resources holds the four engine handles of one streaming attempt. The
// registry owns at most one Resources value at a time; no handle outlives
// the attempt that created it.
type Resources struct {
	videoEncoder engine.Encoder
	audioEncoder engine.Encoder
	output       engine.Output
	service      engine.Service

	logger   *slog.Logger
	mu       sync.Mutex
	released bool
}

// acquireResources creates the video encoder, audio encoder, output and
// service handles in that order, binds the encoders to the current pipelines
// and attaches everything to the output. On any failure the handles created
// so far are released before the error surfaces, so a partial session is
// never left registered.
func acquireResources(native engine.Native, cfg ResourceConfig, target string, logger *slog.Logger) (*Resources, error) {
	res := &Resources{logger: logger}

	ok := false
	defer func() {
		if !ok {
			res.Release()
		}
	}()

	videoEncoder, err := native.CreateVideoEncoder(cfg.VideoEncoderType, "session-video")
	if err != nil {
		return nil, engine.NewError(engine.ErrCodeResourceCreateFailed, "video encoder creation failed", err)
	}
	res.videoEncoder = videoEncoder
	metrics.ResourceAcquired("video_encoder")

	audioEncoder, err := native.CreateAudioEncoder(cfg.AudioEncoderType, "session-audio", cfg.AudioTrack)
	if err != nil {
		return nil, engine.NewError(engine.ErrCodeResourceCreateFailed, "audio encoder creation failed", err)
	}
	res.audioEncoder = audioEncoder
	metrics.ResourceAcquired("audio_encoder")

	output, err := native.CreateOutput(cfg.OutputType, "session-output")
	if err != nil {
		return nil, engine.NewError(engine.ErrCodeResourceCreateFailed, "output creation failed", err)
	}
	res.output = output
	metrics.ResourceAcquired("output")

	service, err := native.CreateService(cfg.ServiceType, "session-service", engine.ServiceSettings{
		Server: target,
		Key:    cfg.ServiceKey,
	})
	if err != nil {
		return nil, engine.NewError(engine.ErrCodeResourceCreateFailed, "service creation failed", err)
	}
	res.service = service
	metrics.ResourceAcquired("service")

	if err := native.BindVideo(videoEncoder); err != nil {
		return nil, engine.NewError(engine.ErrCodeNativeCallFailed, "binding video encoder failed", err)
	}
	if err := native.BindAudio(audioEncoder); err != nil {
		return nil, engine.NewError(engine.ErrCodeNativeCallFailed, "binding audio encoder failed", err)
	}

	if err := output.SetVideoEncoder(videoEncoder); err != nil {
		return nil, engine.NewError(engine.ErrCodeNativeCallFailed, "attaching video encoder failed", err)
	}
	if err := output.SetAudioEncoder(audioEncoder, cfg.AudioTrack); err != nil {
		return nil, engine.NewError(engine.ErrCodeNativeCallFailed, "attaching audio encoder failed", err)
	}
	if err := output.SetService(service); err != nil {
		return nil, engine.NewError(engine.ErrCodeNativeCallFailed, "attaching service failed", err)
	}

	ok = true
	return res, nil
}

// Start starts the output.
func (r *Resources) Start() error {
	return r.output.Start()
}

// Release stops the output if running, then releases output, encoders and
// service. Absent handles are skipped. Safe to call more than once; only the
// first call releases.
func (r *Resources) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	r.mu.Unlock()

	if r.output != nil {
		r.output.Stop()
		r.output.Release()
		r.output = nil
		metrics.ResourceReleased("output")
	}
	if r.videoEncoder != nil {
		r.videoEncoder.Release()
		r.videoEncoder = nil
		metrics.ResourceReleased("video_encoder")
	}
	if r.audioEncoder != nil {
		r.audioEncoder.Release()
		r.audioEncoder = nil
		metrics.ResourceReleased("audio_encoder")
	}
	if r.service != nil {
		r.service.Release()
		r.service = nil
		metrics.ResourceReleased("service")
	}

	r.logger.Debug("Session resources released")
}
