// Package telemetry collects per-frame timing for the animation loop and
// aggregates it over rolling windows for logging and CSV export.
package telemetry

import (
	"log/slog"
	"time"
)

// Stage names for the frame pipeline.
const (
	StageAvatar  = "avatar"
	StageAmbient = "ambient"
	StageAudio   = "audio"
	StageDraw    = "draw"
)

// stageOrder fixes the reporting order for log and CSV output.
var stageOrder = []string{StageAvatar, StageAmbient, StageAudio, StageDraw}

// FrameSample holds timing data for a single frame.
type FrameSample struct {
	FrameDuration time.Duration
	Stages        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []FrameSample
	writeIndex    int
	sampleCount   int
	currentStages map[string]time.Duration
	frameStart    time.Time
	stageStart    time.Time
	lastStage     string
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]FrameSample, windowSize),
		currentStages: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentStages = make(map[string]time.Duration)
	p.lastStage = ""
}

// StartStage begins timing a pipeline stage, ending the previous one.
func (p *PerfCollector) StartStage(stage string) {
	now := time.Now()
	if p.lastStage != "" {
		p.currentStages[p.lastStage] += now.Sub(p.stageStart)
	}
	p.stageStart = now
	p.lastStage = stage
}

// EndFrame finishes the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastStage != "" {
		p.currentStages[p.lastStage] += now.Sub(p.stageStart)
	}

	p.samples[p.writeIndex] = FrameSample{
		FrameDuration: now.Sub(p.frameStart),
		Stages:        p.currentStages,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// SampleCount returns the number of recorded frames, capped at the window.
func (p *PerfCollector) SampleCount() int {
	return p.sampleCount
}

// LogStats logs aggregated frame statistics.
func (s FrameStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameUS,
		"p50_frame_us", s.P50FrameUS,
		"p95_frame_us", s.P95FrameUS,
		"frame_std_us", s.StdFrameUS,
		"fps", int(s.FPS),
	}
	for _, stage := range stageOrder {
		if pct, ok := s.StagePct[stage]; ok && pct > 0.1 {
			attrs = append(attrs, stage+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Float64("avg_frame_us", s.AvgFrameUS),
		slog.Float64("p50_frame_us", s.P50FrameUS),
		slog.Float64("p95_frame_us", s.P95FrameUS),
		slog.Float64("frame_std_us", s.StdFrameUS),
		slog.Float64("fps", s.FPS),
	}
	for stage, pct := range s.StagePct {
		attrs = append(attrs, slog.Float64(stage+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}
