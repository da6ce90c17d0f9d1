package glyph

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds describes the axis-aligned extent of a stroke.
// Left <= Right and Bottom <= Top for any non-empty stroke; the empty
// stroke yields all-zero bounds.
type Bounds struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Center selects which governing center a circle map is built around.
type Center int

const (
	// CenterMass centers the ring map on the stroke's center of mass.
	CenterMass Center = iota
	// CenterMedian centers the ring map on the stroke's geometric median.
	// Scoring uses this variant; the mass-centered map is a cross-check.
	CenterMedian
)

// Axis selects which flat-map projection an operation applies to.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// Weights control the contribution of each map representation to a
// library's fused raw score.
type Weights struct {
	Grid       float64 `yaml:"grid" json:"grid"`
	Circle     float64 `yaml:"circle" json:"circle"`
	Horizontal float64 `yaml:"horizontal" json:"horizontal"`
	Vertical   float64 `yaml:"vertical" json:"vertical"`
}

// DefaultWeights returns the neutral weighting of 1.0 per representation.
func DefaultWeights() Weights {
	return Weights{Grid: 1, Circle: 1, Horizontal: 1, Vertical: 1}
}

// Match is one ranked classification result. Percent is the raw score
// normalized against the library mean: 100 for a perfect match, 0 for
// entries scoring at or above the mean.
type Match struct {
	Name     string  `json:"name"`
	Percent  float64 `json:"percent"`
	RawScore float64 `json:"rawScore"`
}

// MQTTConfig holds MQTT connection settings
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	ClientID      string `yaml:"clientId" json:"clientId"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
	TopicPrefix   string `yaml:"topicPrefix,omitempty" json:"topicPrefix,omitempty"`
	PublishPrefix string `yaml:"publishPrefix,omitempty" json:"publishPrefix,omitempty"`
}

// Config represents the full configuration file
type Config struct {
	HTTPPort          int        `yaml:"httpPort,omitempty" json:"httpPort,omitempty"`
	Precision         int        `yaml:"precision,omitempty" json:"precision,omitempty"`
	Weights           *Weights   `yaml:"weights,omitempty" json:"weights,omitempty"`
	LibraryFile       string     `yaml:"libraryFile,omitempty" json:"libraryFile,omitempty"`
	SimplifyTolerance float64    `yaml:"simplifyTolerance,omitempty" json:"simplifyTolerance,omitempty"`
	MQTT              MQTTConfig `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
}

// GetWeights returns the configured weights or the neutral defaults.
func (c *Config) GetWeights() Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return DefaultWeights()
}
