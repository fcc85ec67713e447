package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Compile-time defaults for the base video and audio pipelines.
const (
	DefaultVideoAdapter   = 0
	DefaultGraphicsModule = "libobs-opengl"
	DefaultVideoFormat    = FormatI420
	DefaultVideoFPSNum    = 30000
	DefaultVideoFPSDen    = 1000
	DefaultVideoWidth     = 640
	DefaultVideoHeight    = 360

	DefaultAudioSampleRate = 44100
	DefaultSpeakers        = SpeakersStereo
)

// VideoFormat identifies a raw pixel format.
type VideoFormat string

// Supported pixel formats.
const (
	FormatI420 VideoFormat = "I420"
	FormatNV12 VideoFormat = "NV12"
)

// SpeakerLayout identifies an audio channel layout.
type SpeakerLayout string

// Supported speaker layouts.
const (
	SpeakersMono   SpeakerLayout = "mono"
	SpeakersStereo SpeakerLayout = "stereo"
)

// VideoInfo is the immutable base video configuration handed to the engine.
// A new value fully replaces the previous one on reset.
type VideoInfo struct {
	Adapter        int
	GraphicsModule string
	OutputFormat   VideoFormat
	FPSNum         int
	FPSDen         int
	BaseWidth      int
	BaseHeight     int
	OutputWidth    int
	OutputHeight   int
}

// Size returns the base canvas size as "WxH".
func (v VideoInfo) Size() string {
	return fmt.Sprintf("%dx%d", v.BaseWidth, v.BaseHeight)
}

// AudioInfo is the immutable base audio configuration handed to the engine.
type AudioInfo struct {
	SampleRate int
	Speakers   SpeakerLayout
}

// VideoOverrides selects which video defaults to replace. Zero-valued fields
// keep the default.
type VideoOverrides struct {
	BaseWidth  int
	BaseHeight int
}

// AudioOverrides selects which audio defaults to replace.
type AudioOverrides struct {
	SampleRate int
	Speakers   SpeakerLayout
}

// BuildVideoInfo merges overrides over the compile-time video defaults. A
// non-positive width or height falls back to the default dimension so the
// engine never receives a zero-sized canvas.
func BuildVideoInfo(overrides VideoOverrides) VideoInfo {
	width := overrides.BaseWidth
	if width <= 0 {
		width = DefaultVideoWidth
	}
	height := overrides.BaseHeight
	if height <= 0 {
		height = DefaultVideoHeight
	}

	return VideoInfo{
		Adapter:        DefaultVideoAdapter,
		GraphicsModule: DefaultGraphicsModule,
		OutputFormat:   DefaultVideoFormat,
		FPSNum:         DefaultVideoFPSNum,
		FPSDen:         DefaultVideoFPSDen,
		BaseWidth:      width,
		BaseHeight:     height,
		OutputWidth:    width,
		OutputHeight:   height,
	}
}

// BuildAudioInfo merges overrides over the compile-time audio defaults.
func BuildAudioInfo(overrides AudioOverrides) AudioInfo {
	info := AudioInfo{
		SampleRate: DefaultAudioSampleRate,
		Speakers:   DefaultSpeakers,
	}
	if overrides.SampleRate > 0 {
		info.SampleRate = overrides.SampleRate
	}
	if overrides.Speakers != "" {
		info.Speakers = overrides.Speakers
	}
	return info
}

// ParseSizeHint parses a "<width>x<height>" hint. Without an 'x' both
// defaults are returned unchanged; an empty side keeps its default. A
// non-numeric side parses to 0, which BuildVideoInfo later clamps back to
// the default dimension.
func ParseSizeHint(text string) (width, height int) {
	width = DefaultVideoWidth
	height = DefaultVideoHeight

	w, h, found := strings.Cut(text, "x")
	if !found {
		return width, height
	}
	if w != "" {
		width, _ = strconv.Atoi(w)
	}
	if h != "" {
		height, _ = strconv.Atoi(h)
	}
	return width, height
}

// ParseChannelHint selects mono when the hint contains "mono" anywhere,
// stereo otherwise.
func ParseChannelHint(text string) SpeakerLayout {
	if strings.Contains(text, "mono") {
		return SpeakersMono
	}
	return SpeakersStereo
}
