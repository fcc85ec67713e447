package session

import (
	"errors"
	"sync"

	"github.com/smazurov/obsnode/internal/engine"
)

// fakeNative is a scriptable engine binding that counts handle creations and
// releases per kind, so tests can assert acquire/release symmetry on every
// exit path.
type fakeNative struct {
	mu       sync.Mutex
	started  bool
	video    bool
	audio    bool
	created  map[string]int
	released map[string]int

	failVideoEncoder bool
	failAudioEncoder bool
	failOutput       bool
	failService      bool
	failStart        bool
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		created:  make(map[string]int),
		released: make(map[string]int),
	}
}

func (f *fakeNative) release(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released[kind]++
}

func (f *fakeNative) balanced() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for kind, n := range f.created {
		if f.released[kind] != n {
			return false
		}
	}
	return true
}

func (f *fakeNative) Startup(string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	f.audio = true
	return nil
}

func (f *fakeNative) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *fakeNative) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
}

func (f *fakeNative) Version() string { return "31.0.2" }

func (f *fakeNative) LoadAllModules() error { return nil }

func (f *fakeNative) ResetVideo(engine.VideoInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.video = true
	return nil
}

func (f *fakeNative) ResetAudio(engine.AudioInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audio = true
	return nil
}

func (f *fakeNative) CreateVideoEncoder(_, name string) (engine.Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failVideoEncoder {
		return nil, errors.New("video encoder creation refused")
	}
	f.created["video_encoder"]++
	return &fakeHandle{native: f, kind: "video_encoder", name: name}, nil
}

func (f *fakeNative) CreateAudioEncoder(_, name string, _ int) (engine.Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAudioEncoder {
		return nil, errors.New("audio encoder creation refused")
	}
	f.created["audio_encoder"]++
	return &fakeHandle{native: f, kind: "audio_encoder", name: name}, nil
}

func (f *fakeNative) CreateOutput(_, name string) (engine.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOutput {
		return nil, errors.New("output creation refused")
	}
	f.created["output"]++
	return &fakeOutput{fakeHandle: fakeHandle{native: f, kind: "output", name: name}}, nil
}

func (f *fakeNative) CreateService(_, name string, _ engine.ServiceSettings) (engine.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failService {
		return nil, errors.New("service creation refused")
	}
	f.created["service"]++
	return &fakeHandle{native: f, kind: "service", name: name}, nil
}

func (f *fakeNative) BindVideo(engine.Encoder) error { return nil }
func (f *fakeNative) BindAudio(engine.Encoder) error { return nil }

func (f *fakeNative) EnumEncoders() []string { return nil }
func (f *fakeNative) EnumOutputs() []string  { return nil }

type fakeHandle struct {
	native   *fakeNative
	kind     string
	name     string
	mu       sync.Mutex
	released bool
}

func (h *fakeHandle) Name() string { return h.name }

func (h *fakeHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.native.release(h.kind)
}

type fakeOutput struct {
	fakeHandle
	active bool
}

func (o *fakeOutput) SetVideoEncoder(engine.Encoder) error      { return nil }
func (o *fakeOutput) SetAudioEncoder(engine.Encoder, int) error { return nil }
func (o *fakeOutput) SetService(engine.Service) error           { return nil }

func (o *fakeOutput) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.native.failStart {
		return errors.New("output start refused by service")
	}
	o.active = true
	return nil
}

func (o *fakeOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = false
}

func (o *fakeOutput) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}
