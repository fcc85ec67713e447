// Package engine wraps a native OBS-style audio/video capture and streaming
// engine behind a handle-based interface, and owns the process-wide engine
// lifecycle.
package engine

// NotInitializedSentinel is the payload returned by enumeration queries when
// the engine has not been initialized. Kept verbatim for compatibility with
// existing consumers of the control surface.
const NotInitializedSentinel = "Error: OBS API not initialized!"

// Native is the handle-based surface of the underlying engine. All calls may
// block and must run off the control thread except the pure reads
// (Initialized, Version, EnumEncoders, EnumOutputs).
type Native interface {
	// Startup brings the engine core up for the given locale.
	Startup(locale string) error
	// Initialized reports whether the engine core is up. Pure read.
	Initialized() bool
	// Shutdown releases all engine-held resources.
	Shutdown()
	// Version returns the engine version, e.g. "31.0.2".
	Version() string
	// LoadAllModules discovers and loads encoder/output/service modules.
	LoadAllModules() error

	// ResetVideo replaces the base video pipeline. Fails while any output
	// is active.
	ResetVideo(info VideoInfo) error
	// ResetAudio replaces the base audio pipeline. Fails while any output
	// is active.
	ResetAudio(info AudioInfo) error

	CreateVideoEncoder(typeID, name string) (Encoder, error)
	CreateAudioEncoder(typeID, name string, track int) (Encoder, error)
	CreateOutput(typeID, name string) (Output, error)
	CreateService(typeID, name string, settings ServiceSettings) (Service, error)

	// BindVideo binds an encoder to the engine's current video pipeline.
	BindVideo(enc Encoder) error
	// BindAudio binds an encoder to the engine's current audio pipeline.
	BindAudio(enc Encoder) error

	// EnumEncoders lists the names of live encoder handles. Pure read.
	EnumEncoders() []string
	// EnumOutputs lists the names of live output handles. Pure read.
	EnumOutputs() []string
}

// Encoder is a handle compressing raw video or audio into a codec stream.
type Encoder interface {
	Name() string
	Release()
}

// Service is a handle describing a streaming destination.
type Service interface {
	Name() string
	Release()
}

// Output multiplexes one video and one audio encoder stream and delivers it
// to the destination described by its service.
type Output interface {
	Name() string
	SetVideoEncoder(enc Encoder) error
	SetAudioEncoder(enc Encoder, track int) error
	SetService(svc Service) error
	Start() error
	Stop()
	Active() bool
	Release()
}

// ServiceSettings carries the streaming destination of a service handle.
type ServiceSettings struct {
	Server string
	Key    string
}
