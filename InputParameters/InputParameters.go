package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

type MeshParameters struct {
	Cells   []int     `yaml:"Cells"`   // Elements per axis, the length sets the dimension
	Lengths []float64 `yaml:"Lengths"` // Domain extent per axis, origin at zero
	Simplex bool      `yaml:"Simplex"` // Triangles / tets instead of quads / hexes
}

// Parameters obtained from the YAML input file
type InterpolationParameters struct {
	Title           string         `yaml:"Title"`
	Source          MeshParameters `yaml:"Source"`
	Target          MeshParameters `yaml:"Target"`
	SourceOrder     int            `yaml:"SourceOrder"`
	TargetOrder     int            `yaml:"TargetOrder"`
	Continuous      bool           `yaml:"Continuous"` // Continuous P1 source field
	Components      int            `yaml:"Components"`
	Function        string         `yaml:"Function"` // linear, quadratic or sine
	Ranks           int            `yaml:"Ranks"`
	ElementsPerCell float64        `yaml:"ElementsPerCell"`
	Cells           []int          `yaml:"Cells"` // Octree bucket counts, overrides ElementsPerCell
	ProbeRings      int            `yaml:"ProbeRings"`
}

func NewInterpolationParameters() *InterpolationParameters {
	return &InterpolationParameters{
		Title:           "Interpolation",
		SourceOrder:     1,
		TargetOrder:     1,
		Components:      1,
		Function:        "linear",
		Ranks:           1,
		ElementsPerCell: 1,
		ProbeRings:      1,
	}
}

// Parse reads YAML over the current values, so defaults survive for keys
// the input omits
func (ip *InterpolationParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *InterpolationParameters) Validate() error {
	for _, mp := range []struct {
		name string
		m    MeshParameters
	}{{"Source", ip.Source}, {"Target", ip.Target}} {
		if len(mp.m.Cells) < 1 || len(mp.m.Cells) > 3 {
			return fmt.Errorf("%s mesh: need 1 to 3 cell counts, have %d", mp.name, len(mp.m.Cells))
		}
		if len(mp.m.Lengths) != len(mp.m.Cells) {
			return fmt.Errorf("%s mesh: %d lengths for %d axes", mp.name, len(mp.m.Lengths), len(mp.m.Cells))
		}
		for i, n := range mp.m.Cells {
			if n < 1 || mp.m.Lengths[i] <= 0 {
				return fmt.Errorf("%s mesh: axis %d has %d cells of total length %g",
					mp.name, i, n, mp.m.Lengths[i])
			}
		}
	}
	if len(ip.Source.Cells) != len(ip.Target.Cells) {
		return fmt.Errorf("source mesh is %dD, target mesh is %dD", len(ip.Source.Cells), len(ip.Target.Cells))
	}
	if ip.Components < 1 {
		return fmt.Errorf("components must be positive, have %d", ip.Components)
	}
	if ip.Ranks < 1 {
		return fmt.Errorf("ranks must be positive, have %d", ip.Ranks)
	}
	switch strings.ToLower(ip.Function) {
	case "linear", "quadratic", "sine":
	default:
		return fmt.Errorf("unknown function %q", ip.Function)
	}
	return nil
}

func (ip *InterpolationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v x %v simplex=%v\t= Source Mesh\n", ip.Source.Cells, ip.Source.Lengths, ip.Source.Simplex)
	fmt.Printf("%v x %v simplex=%v\t= Target Mesh\n", ip.Target.Cells, ip.Target.Lengths, ip.Target.Simplex)
	fmt.Printf("[P%d -> P%d]\t\t= Orders\n", ip.SourceOrder, ip.TargetOrder)
	fmt.Printf("[%d]\t\t\t\t= Components\n", ip.Components)
	fmt.Printf("[%s]\t\t\t= Function\n", ip.Function)
	fmt.Printf("[%d]\t\t\t\t= Ranks\n", ip.Ranks)
	if len(ip.Cells) != 0 {
		fmt.Printf("%v\t\t\t= Octree Cells\n", ip.Cells)
	} else {
		fmt.Printf("%8.5f\t\t= Elements Per Cell\n", ip.ElementsPerCell)
	}
	fmt.Printf("[%d]\t\t\t\t= Probe Rings\n", ip.ProbeRings)
}
