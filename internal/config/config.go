// Package config handles renderer configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Render   RenderConfig   `yaml:"render"`
	Scene    SceneConfig    `yaml:"scene"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds window settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds the initial camera pose and its controls.
type CameraConfig struct {
	FOV           float32    `yaml:"fov"` // Vertical field of view in degrees
	NearClip      float32    `yaml:"near_clip"`
	FarClip       float32    `yaml:"far_clip"`
	Position      [3]float32 `yaml:"position,flow"`
	Direction     [3]float32 `yaml:"direction,flow"`
	MoveSpeed     float32    `yaml:"move_speed"`     // Units per second
	RotationSpeed float32    `yaml:"rotation_speed"` // Radians per scaled pixel of mouse travel
}

// RenderConfig holds ray caster settings.
type RenderConfig struct {
	Workers int `yaml:"workers"` // 1 renders on the calling goroutine
}

// SceneConfig points at the scene to load. An empty path uses the built-in scene.
type SceneConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds screenshot settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:           45,
			NearClip:      0.1,
			FarClip:       100,
			Position:      [3]float32{0, 0, 6},
			Direction:     [3]float32{0, 0, -1},
			MoveSpeed:     5,
			RotationSpeed: 0.3,
		},
		Render: RenderConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Dir:    "screenshots",
			Prefix: "render",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
