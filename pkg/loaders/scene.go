package loaders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SceneDescriptor is a host-friendly YAML mirror of the renderer's wire
// API: a camera block, a flat texture list, and a list of mesh instances
// referencing glTF files and textures by index. It exists purely as an
// authoring convenience around the flat-array entry points — the core
// itself knows nothing about YAML.
type SceneDescriptor struct {
	Camera   CameraDescriptor `yaml:"camera"`
	Light    LightDescriptor  `yaml:"light"`
	Textures []string         `yaml:"textures"`
	Meshes   []MeshDescriptor `yaml:"meshes"`
}

type CameraDescriptor struct {
	Position [3]float64 `yaml:"position"`
	Forward  [3]float64 `yaml:"forward"`
	Up       [3]float64 `yaml:"up"`
	Right    [3]float64 `yaml:"right"`
	Sensor   float64    `yaml:"sensor"`
}

type LightDescriptor struct {
	Center   [3]float64 `yaml:"center"`
	Side     float64    `yaml:"side"`
	Emission [3]float64 `yaml:"emission"`
}

// MeshDescriptor names a glTF source file, a forward transform (inverse is
// derived by the loader's caller, not by the core), and a material block.
type MeshDescriptor struct {
	Source    string             `yaml:"source"`
	Transform [16]float64        `yaml:"transform"`
	Material  MaterialDescriptor `yaml:"material"`
}

type MaterialDescriptor struct {
	Kind    string     `yaml:"kind"` // "diffuse" or "glass"
	Texture int        `yaml:"texture"`
	Albedo  [3]float64 `yaml:"albedo"`
	IOR     float64    `yaml:"ior"`
}

// LoadScene parses a YAML scene descriptor from path.
func LoadScene(path string) (SceneDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneDescriptor{}, fmt.Errorf("loaders: reading %s: %w", path, err)
	}
	var sd SceneDescriptor
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return SceneDescriptor{}, fmt.Errorf("loaders: parsing %s: %w", path, err)
	}
	return sd, nil
}

// CameraWire packs a CameraDescriptor into the renderer's 13-float layout.
func (c CameraDescriptor) CameraWire() [13]float64 {
	return [13]float64{
		c.Position[0], c.Position[1], c.Position[2],
		c.Forward[0], c.Forward[1], c.Forward[2],
		c.Up[0], c.Up[1], c.Up[2],
		c.Right[0], c.Right[1], c.Right[2],
		c.Sensor,
	}
}

// MaterialWire packs a MaterialDescriptor into the renderer's 5-float
// material descriptor layout (material[0] selects the variant).
func (m MaterialDescriptor) MaterialWire() [5]float64 {
	if m.Kind == "glass" {
		return [5]float64{1, m.IOR, 0, 0, 0}
	}
	return [5]float64{0, float64(m.Texture), m.Albedo[0], m.Albedo[1], m.Albedo[2]}
}
