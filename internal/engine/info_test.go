package engine

import "testing"

func TestParseSizeHint(t *testing.T) {
	tests := []struct {
		input      string
		wantWidth  int
		wantHeight int
	}{
		{"1280x720", 1280, 720},
		{"x720", 640, 720},
		{"1280x", 1280, 360},
		{"garbage", 640, 360},
		{"", 640, 360},
		{"axb", 0, 0},
		{"1920x1080", 1920, 1080},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			w, h := ParseSizeHint(tt.input)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("ParseSizeHint(%q) = (%d,%d), want (%d,%d)",
					tt.input, w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestParseChannelHint(t *testing.T) {
	tests := []struct {
		input string
		want  SpeakerLayout
	}{
		{"mono", SpeakersMono},
		{"monostereo", SpeakersMono},
		{"", SpeakersStereo},
		{"stereo", SpeakersStereo},
		{"use mono please", SpeakersMono},
	}

	for _, tt := range tests {
		if got := ParseChannelHint(tt.input); got != tt.want {
			t.Errorf("ParseChannelHint(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBuildVideoInfoDefaults(t *testing.T) {
	info := BuildVideoInfo(VideoOverrides{})

	if info.BaseWidth != DefaultVideoWidth || info.BaseHeight != DefaultVideoHeight {
		t.Errorf("base size = %s, want 640x360", info.Size())
	}
	if info.OutputWidth != DefaultVideoWidth || info.OutputHeight != DefaultVideoHeight {
		t.Errorf("output size = %dx%d, want 640x360", info.OutputWidth, info.OutputHeight)
	}
	if info.GraphicsModule != DefaultGraphicsModule {
		t.Errorf("graphics module = %q, want %q", info.GraphicsModule, DefaultGraphicsModule)
	}
	if info.FPSNum != 30000 || info.FPSDen != 1000 {
		t.Errorf("fps = %d/%d, want 30000/1000", info.FPSNum, info.FPSDen)
	}
	if info.OutputFormat != FormatI420 {
		t.Errorf("format = %v, want I420", info.OutputFormat)
	}
}

func TestBuildVideoInfoClampsNonPositiveSizes(t *testing.T) {
	// A garbage hint side parses to 0; the builder must never hand the
	// engine a zero-sized canvas.
	info := BuildVideoInfo(VideoOverrides{BaseWidth: 0, BaseHeight: -1})
	if info.BaseWidth != DefaultVideoWidth || info.BaseHeight != DefaultVideoHeight {
		t.Errorf("clamped size = %s, want 640x360", info.Size())
	}
}

func TestBuildVideoInfoOverrides(t *testing.T) {
	info := BuildVideoInfo(VideoOverrides{BaseWidth: 1920, BaseHeight: 1080})
	if info.Size() != "1920x1080" {
		t.Errorf("size = %s, want 1920x1080", info.Size())
	}
}

func TestBuildAudioInfo(t *testing.T) {
	info := BuildAudioInfo(AudioOverrides{})
	if info.SampleRate != 44100 || info.Speakers != SpeakersStereo {
		t.Errorf("defaults = %d/%v, want 44100/stereo", info.SampleRate, info.Speakers)
	}

	info = BuildAudioInfo(AudioOverrides{SampleRate: 48000, Speakers: SpeakersMono})
	if info.SampleRate != 48000 || info.Speakers != SpeakersMono {
		t.Errorf("overrides = %d/%v, want 48000/mono", info.SampleRate, info.Speakers)
	}
}
