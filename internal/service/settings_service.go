package service

import (
	"errors"
	"fmt"
	"strconv"

	"inkpad/internal/domain"
	"inkpad/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Settings: window size and last tool between launches
// ─────────────────────────────────────────────────────────────

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsService persists UI preferences in the app_settings table.
type SettingsService struct {
	store *storage.SettingsStore
}

// NewSettingsService creates a SettingsService. A nil store makes every
// load return defaults and every save fail.
func NewSettingsService(store *storage.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	settingToolKind     = "tool_kind"
	settingToolColor    = "tool_color"
	settingToolWidth    = "tool_width"

	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
	minWindowWidth      = 800
	minWindowHeight     = 600
)

var errNoStore = errors.New("settings: no store")

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *SettingsService) LoadWindowSize() WindowSize {
	size := WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if s.store == nil {
		return size
	}
	if w, ok := s.intSetting(settingWindowWidth); ok && w >= minWindowWidth {
		size.Width = w
	}
	if h, ok := s.intSetting(settingWindowHeight); ok && h >= minWindowHeight {
		size.Height = h
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsService) SaveWindowSize(width, height int) error {
	if s.store == nil {
		return errNoStore
	}
	return s.store.SetMany(map[string]string{
		settingWindowWidth:  strconv.Itoa(width),
		settingWindowHeight: strconv.Itoa(height),
	})
}

// LoadTool returns the last saved tool, or fallback if none was saved or
// the saved one no longer validates.
func (s *SettingsService) LoadTool(fallback domain.ToolState) domain.ToolState {
	if s.store == nil {
		return fallback
	}
	kind, err := s.store.Get(settingToolKind)
	if err != nil {
		return fallback
	}
	color, err := s.store.Get(settingToolColor)
	if err != nil {
		return fallback
	}
	raw, err := s.store.Get(settingToolWidth)
	if err != nil {
		return fallback
	}
	width, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	t := domain.ToolState{Kind: domain.ToolKind(kind), Color: color, Width: width}
	if t.Validate() != nil {
		return fallback
	}
	return t
}

// SaveTool persists t as the tool for the next launch.
func (s *SettingsService) SaveTool(t domain.ToolState) error {
	if s.store == nil {
		return errNoStore
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("save tool: %w", err)
	}
	return s.store.SetMany(map[string]string{
		settingToolKind:  string(t.Kind),
		settingToolColor: t.Color,
		settingToolWidth: strconv.FormatFloat(t.Width, 'g', -1, 64),
	})
}

func (s *SettingsService) intSetting(key string) (int, bool) {
	raw, err := s.store.Get(key)
	if err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
