package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/spf13/cobra"
)

// resolveConfig applies preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", dynamo.ErrInvalidConfig, preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if changed("length") {
		cfg.Physics.Length = length
	}
	if changed("damping") {
		cfg.Physics.Damping = damping
	}
	if changed("theta") {
		cfg.Initial.Theta = theta
	}
	if changed("omega") {
		cfg.Initial.Omega = omega
	}
	if changed("dt") {
		cfg.Integration.Dt = dt
	}
	if changed("time") {
		cfg.Integration.Duration = duration
	}
	if changed("method") {
		cfg.Integration.Method = method
	}
	if changed("fps") {
		cfg.Render.FPS = fps
	}
	if changed("size") {
		w, h, err := parseSize(size)
		if err != nil {
			return nil, err
		}
		cfg.Render.Width, cfg.Render.Height = w, h
	}
	if changed("out") {
		cfg.Render.Output = output
	}
	if changed("ffmpeg") {
		cfg.Render.FFmpeg = ffmpegPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseSize accepts "640x480" or "480".
func parseSize(s string) (int, int, error) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		hs = ws
	}
	w, errW := strconv.Atoi(strings.TrimSpace(ws))
	h, errH := strconv.Atoi(strings.TrimSpace(hs))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid size %q", dynamo.ErrInvalidConfig, s)
	}
	return w, h, nil
}
