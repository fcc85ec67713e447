package engine

import (
	"strings"
	"testing"
)

func startedSim(t *testing.T) *Sim {
	t.Helper()
	sim := NewSim()
	if err := sim.Startup(DefaultLocale); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if err := sim.LoadAllModules(); err != nil {
		t.Fatalf("LoadAllModules failed: %v", err)
	}
	return sim
}

// buildSession wires a full encoder/output/service graph the way a session
// start does, without going through the session manager.
func buildSession(t *testing.T, sim *Sim) (Output, Encoder, Encoder, Service) {
	t.Helper()

	if err := sim.ResetVideo(BuildVideoInfo(VideoOverrides{})); err != nil {
		t.Fatalf("ResetVideo failed: %v", err)
	}

	venc, err := sim.CreateVideoEncoder("obs_x264", "session-video")
	if err != nil {
		t.Fatalf("CreateVideoEncoder failed: %v", err)
	}
	aenc, err := sim.CreateAudioEncoder("adv_stream_aac", "session-audio", 0)
	if err != nil {
		t.Fatalf("CreateAudioEncoder failed: %v", err)
	}
	out, err := sim.CreateOutput("rtmp_output", "session-output")
	if err != nil {
		t.Fatalf("CreateOutput failed: %v", err)
	}
	svc, err := sim.CreateService("rtmp_common", "session-service", ServiceSettings{Server: "rtmp://live.example.com/app"})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	if err := sim.BindVideo(venc); err != nil {
		t.Fatalf("BindVideo failed: %v", err)
	}
	if err := sim.BindAudio(aenc); err != nil {
		t.Fatalf("BindAudio failed: %v", err)
	}
	if err := out.SetVideoEncoder(venc); err != nil {
		t.Fatalf("SetVideoEncoder failed: %v", err)
	}
	if err := out.SetAudioEncoder(aenc, 0); err != nil {
		t.Fatalf("SetAudioEncoder failed: %v", err)
	}
	if err := out.SetService(svc); err != nil {
		t.Fatalf("SetService failed: %v", err)
	}
	return out, venc, aenc, svc
}

func TestSimRequiresStartupBeforeModules(t *testing.T) {
	sim := NewSim()
	if err := sim.LoadAllModules(); err == nil {
		t.Error("LoadAllModules should fail before Startup")
	}
}

func TestSimUnknownTypes(t *testing.T) {
	sim := startedSim(t)

	if _, err := sim.CreateVideoEncoder("no_such_encoder", "x"); err == nil {
		t.Error("unknown video encoder type should fail")
	}
	if _, err := sim.CreateOutput("no_such_output", "x"); err == nil {
		t.Error("unknown output type should fail")
	}
	if _, err := sim.CreateService("no_such_service", "x", ServiceSettings{Server: "rtmp://a"}); err == nil {
		t.Error("unknown service type should fail")
	}
}

func TestSimBindVideoRequiresPipeline(t *testing.T) {
	sim := startedSim(t)

	venc, err := sim.CreateVideoEncoder("obs_x264", "v")
	if err != nil {
		t.Fatalf("CreateVideoEncoder failed: %v", err)
	}
	if err := sim.BindVideo(venc); err == nil {
		t.Error("BindVideo should fail before ResetVideo")
	}

	if err := sim.ResetVideo(BuildVideoInfo(VideoOverrides{})); err != nil {
		t.Fatalf("ResetVideo failed: %v", err)
	}
	if err := sim.BindVideo(venc); err != nil {
		t.Errorf("BindVideo after ResetVideo failed: %v", err)
	}
}

func TestSimOutputStartRequiresFullGraph(t *testing.T) {
	sim := startedSim(t)

	out, err := sim.CreateOutput("rtmp_output", "o")
	if err != nil {
		t.Fatalf("CreateOutput failed: %v", err)
	}
	if err := out.Start(); err == nil {
		t.Error("Start should fail without encoders and service")
	}
}

func TestSimResetBlockedWhileOutputActive(t *testing.T) {
	sim := startedSim(t)
	out, _, _, _ := buildSession(t, sim)

	if err := out.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := sim.ResetVideo(BuildVideoInfo(VideoOverrides{})); err == nil {
		t.Error("ResetVideo should fail while an output is active")
	}
	if err := sim.ResetAudio(BuildAudioInfo(AudioOverrides{})); err == nil {
		t.Error("ResetAudio should fail while an output is active")
	}

	out.Stop()
	if err := sim.ResetVideo(BuildVideoInfo(VideoOverrides{})); err != nil {
		t.Errorf("ResetVideo after Stop failed: %v", err)
	}
}

func TestSimReleaseStopsActiveOutput(t *testing.T) {
	sim := startedSim(t)
	out, venc, aenc, svc := buildSession(t, sim)

	if err := out.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Release without an explicit Stop must deactivate the output so a
	// later pipeline reset is not blocked by a leaked active handle.
	out.Release()
	venc.Release()
	aenc.Release()
	svc.Release()

	if err := sim.ResetVideo(BuildVideoInfo(VideoOverrides{})); err != nil {
		t.Errorf("ResetVideo after Release failed: %v", err)
	}
	if got := strings.Join(sim.EnumEncoders(), ""); got != "" {
		t.Errorf("EnumEncoders after release = %q, want empty", got)
	}
	if got := strings.Join(sim.EnumOutputs(), ""); got != "" {
		t.Errorf("EnumOutputs after release = %q, want empty", got)
	}
}

func TestSimEnumerationListsLiveHandles(t *testing.T) {
	sim := startedSim(t)
	buildSession(t, sim)

	encoders := strings.Join(sim.EnumEncoders(), "")
	if encoders != "session-videosession-audio" {
		t.Errorf("EnumEncoders = %q, want concatenated handle names", encoders)
	}
	outputs := strings.Join(sim.EnumOutputs(), "")
	if outputs != "session-output" {
		t.Errorf("EnumOutputs = %q", outputs)
	}
}

func TestSimDoubleReleaseIsSafe(t *testing.T) {
	sim := startedSim(t)
	out, venc, _, _ := buildSession(t, sim)

	venc.Release()
	venc.Release()
	out.Release()
	out.Release()
}
