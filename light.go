package fpsproto

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeAmbient     LightType = 3
)

type LightComponent struct {
	Type           LightType
	Color          [3]float32 // RGB
	Intensity      float32    // luminous power; point lights fall off with the squared distance
	Range          float32
	ShadowsEnabled bool
}
