package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

const simVersion = "31.0.2"

// Sim is an in-process stand-in for the native engine binding. It models the
// parts of the native contract the control surface depends on: startup and
// module loading, the base video/audio pipelines, handle creation and
// release, and the rule that an active output blocks pipeline resets.
// Deployments with real engine bindings provide their own Native
// implementation; Sim is the default and what the tests run against.
type Sim struct {
	mu            sync.Mutex
	started       bool
	modulesLoaded bool

	video *VideoInfo
	audio *AudioInfo

	videoEncoderTypes map[string]bool
	audioEncoderTypes map[string]bool
	outputTypes       map[string]bool
	serviceTypes      map[string]bool

	// Live handles in creation order, for enumeration.
	encoders []*simEncoder
	outputs  []*simOutput

	activeOutputs int
}

// NewSim creates a simulated engine with no modules loaded.
func NewSim() *Sim {
	return &Sim{
		videoEncoderTypes: make(map[string]bool),
		audioEncoderTypes: make(map[string]bool),
		outputTypes:       make(map[string]bool),
		serviceTypes:      make(map[string]bool),
	}
}

// Startup implements Native. The audio pipeline comes up with defaults; the
// video pipeline stays unset until the first ResetVideo since it needs a
// graphics adapter.
func (s *Sim) Startup(locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if locale == "" {
		return errors.New("locale must not be empty")
	}
	if s.started {
		return errors.New("engine core already started")
	}

	s.started = true
	audio := BuildAudioInfo(AudioOverrides{})
	s.audio = &audio
	return nil
}

// Initialized implements Native.
func (s *Sim) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Shutdown implements Native. Every handle the engine still holds is dropped.
func (s *Sim) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = false
	s.modulesLoaded = false
	s.video = nil
	s.audio = nil
	s.encoders = nil
	s.outputs = nil
	s.activeOutputs = 0
	s.videoEncoderTypes = make(map[string]bool)
	s.audioEncoderTypes = make(map[string]bool)
	s.outputTypes = make(map[string]bool)
	s.serviceTypes = make(map[string]bool)
}

// Version implements Native.
func (s *Sim) Version() string {
	return simVersion
}

// LoadAllModules implements Native and registers the built-in handle types.
func (s *Sim) LoadAllModules() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return errors.New("engine core not started")
	}

	s.videoEncoderTypes["com.apple.videotoolbox.videoencoder.h264.gva"] = true
	s.videoEncoderTypes["obs_x264"] = true
	s.audioEncoderTypes["adv_stream_aac"] = true
	s.audioEncoderTypes["ffmpeg_aac"] = true
	s.outputTypes["rtmp_output"] = true
	s.outputTypes["flv_output"] = true
	s.serviceTypes["rtmp_common"] = true
	s.serviceTypes["rtmp_custom"] = true
	s.modulesLoaded = true
	return nil
}

// ResetVideo implements Native.
func (s *Sim) ResetVideo(info VideoInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return errors.New("engine core not started")
	}
	if s.activeOutputs > 0 {
		return errors.New("video pipeline cannot be reset while an output is active")
	}
	if info.BaseWidth <= 0 || info.BaseHeight <= 0 || info.OutputWidth <= 0 || info.OutputHeight <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", info.BaseWidth, info.BaseHeight)
	}
	if info.FPSNum <= 0 || info.FPSDen <= 0 {
		return fmt.Errorf("invalid frame rate %d/%d", info.FPSNum, info.FPSDen)
	}

	s.video = &info
	return nil
}

// ResetAudio implements Native.
func (s *Sim) ResetAudio(info AudioInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return errors.New("engine core not started")
	}
	if s.activeOutputs > 0 {
		return errors.New("audio pipeline cannot be reset while an output is active")
	}
	if info.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", info.SampleRate)
	}
	if info.Speakers != SpeakersMono && info.Speakers != SpeakersStereo {
		return fmt.Errorf("unsupported speaker layout %q", info.Speakers)
	}

	s.audio = &info
	return nil
}

// CreateVideoEncoder implements Native.
func (s *Sim) CreateVideoEncoder(typeID, name string) (Encoder, error) {
	return s.createEncoder(typeID, name, encoderVideo)
}

// CreateAudioEncoder implements Native.
func (s *Sim) CreateAudioEncoder(typeID, name string, track int) (Encoder, error) {
	if track < 0 {
		return nil, fmt.Errorf("invalid audio track %d", track)
	}
	return s.createEncoder(typeID, name, encoderAudio)
}

func (s *Sim) createEncoder(typeID, name string, kind encoderKind) (Encoder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireModules(); err != nil {
		return nil, err
	}
	registered := s.videoEncoderTypes
	if kind == encoderAudio {
		registered = s.audioEncoderTypes
	}
	if !registered[typeID] {
		return nil, fmt.Errorf("unknown encoder type %q", typeID)
	}

	enc := &simEncoder{sim: s, typeID: typeID, name: name, kind: kind}
	s.encoders = append(s.encoders, enc)
	return enc, nil
}

// CreateOutput implements Native.
func (s *Sim) CreateOutput(typeID, name string) (Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireModules(); err != nil {
		return nil, err
	}
	if !s.outputTypes[typeID] {
		return nil, fmt.Errorf("unknown output type %q", typeID)
	}

	out := &simOutput{sim: s, typeID: typeID, name: name}
	s.outputs = append(s.outputs, out)
	return out, nil
}

// CreateService implements Native.
func (s *Sim) CreateService(typeID, name string, settings ServiceSettings) (Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireModules(); err != nil {
		return nil, err
	}
	if !s.serviceTypes[typeID] {
		return nil, fmt.Errorf("unknown service type %q", typeID)
	}
	if settings.Server == "" {
		return nil, errors.New("service requires a server URL")
	}

	return &simService{name: name, settings: settings}, nil
}

// BindVideo implements Native.
func (s *Sim) BindVideo(enc Encoder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, err := s.ownEncoder(enc, encoderVideo)
	if err != nil {
		return err
	}
	if s.video == nil {
		return errors.New("no video pipeline, reset video first")
	}
	se.bound = true
	return nil
}

// BindAudio implements Native.
func (s *Sim) BindAudio(enc Encoder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, err := s.ownEncoder(enc, encoderAudio)
	if err != nil {
		return err
	}
	if s.audio == nil {
		return errors.New("no audio pipeline, reset audio first")
	}
	se.bound = true
	return nil
}

// EnumEncoders implements Native.
func (s *Sim) EnumEncoders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.encoders))
	for _, enc := range s.encoders {
		names = append(names, enc.name)
	}
	return names
}

// EnumOutputs implements Native.
func (s *Sim) EnumOutputs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.outputs))
	for _, out := range s.outputs {
		names = append(names, out.name)
	}
	return names
}

func (s *Sim) requireModules() error {
	if !s.started {
		return errors.New("engine core not started")
	}
	if !s.modulesLoaded {
		return errors.New("modules not loaded")
	}
	return nil
}

func (s *Sim) ownEncoder(enc Encoder, kind encoderKind) (*simEncoder, error) {
	se, ok := enc.(*simEncoder)
	if !ok || se.sim != s {
		return nil, errors.New("encoder does not belong to this engine")
	}
	if se.released {
		return nil, errors.New("encoder already released")
	}
	if se.kind != kind {
		return nil, errors.New("encoder kind mismatch")
	}
	return se, nil
}

type encoderKind int

const (
	encoderVideo encoderKind = iota
	encoderAudio
)

type simEncoder struct {
	sim      *Sim
	typeID   string
	name     string
	kind     encoderKind
	bound    bool
	released bool
}

func (e *simEncoder) Name() string { return e.name }

func (e *simEncoder) Release() {
	e.sim.mu.Lock()
	defer e.sim.mu.Unlock()

	if e.released {
		return
	}
	e.released = true
	e.sim.encoders = slices.DeleteFunc(e.sim.encoders, func(other *simEncoder) bool {
		return other == e
	})
}

type simService struct {
	name     string
	settings ServiceSettings
	released bool
	mu       sync.Mutex
}

func (s *simService) Name() string { return s.name }

func (s *simService) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
}

type simOutput struct {
	sim      *Sim
	typeID   string
	name     string
	videoEnc *simEncoder
	audioEnc *simEncoder
	service  *simService
	active   bool
	released bool
}

func (o *simOutput) Name() string { return o.name }

func (o *simOutput) SetVideoEncoder(enc Encoder) error {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()

	se, err := o.sim.ownEncoder(enc, encoderVideo)
	if err != nil {
		return err
	}
	if !se.bound {
		return errors.New("video encoder is not bound to the video pipeline")
	}
	o.videoEnc = se
	return nil
}

func (o *simOutput) SetAudioEncoder(enc Encoder, track int) error {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()

	if track < 0 {
		return fmt.Errorf("invalid audio track %d", track)
	}
	se, err := o.sim.ownEncoder(enc, encoderAudio)
	if err != nil {
		return err
	}
	if !se.bound {
		return errors.New("audio encoder is not bound to the audio pipeline")
	}
	o.audioEnc = se
	return nil
}

func (o *simOutput) SetService(svc Service) error {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()

	ss, ok := svc.(*simService)
	if !ok {
		return errors.New("service does not belong to this engine")
	}
	o.service = ss
	return nil
}

func (o *simOutput) Start() error {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()

	if o.released {
		return errors.New("output already released")
	}
	if o.active {
		return errors.New("output already active")
	}
	if o.videoEnc == nil || o.audioEnc == nil {
		return errors.New("output requires video and audio encoders")
	}
	if o.service == nil {
		return errors.New("output requires a service")
	}

	o.active = true
	o.sim.activeOutputs++
	return nil
}

func (o *simOutput) Stop() {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()
	o.stopLocked()
}

func (o *simOutput) Active() bool {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()
	return o.active
}

func (o *simOutput) Release() {
	o.sim.mu.Lock()
	defer o.sim.mu.Unlock()

	if o.released {
		return
	}
	o.stopLocked()
	o.released = true
	o.sim.outputs = slices.DeleteFunc(o.sim.outputs, func(other *simOutput) bool {
		return other == o
	})
}

func (o *simOutput) stopLocked() {
	if !o.active {
		return
	}
	o.active = false
	o.sim.activeOutputs--
}
