package raster

import (
	"math"

	"github.com/rasterforge/pipeline/pkg/vecmath"
)

// lightPosition is the single fixed light, specified in screen space
// (pixels, NDC-mapped depth) rather than world space. This couples lighting
// to resolution but is the preserved behavior of the pipeline this package
// implements.
var lightPosition = vecmath.V3(80, 50, 50)

const (
	ambientStrength  = 0.1
	specularStrength = 0.5
	shininess        = 32.0
)

// shadeFragment applies ambient + diffuse + specular Phong lighting to a
// fragment's interpolated color, given its screen-space position, unit
// normal, and the camera position the specular term is measured from.
func shadeFragment(pos, normal, cameraPos vecmath.Vec3, base vecmath.ColorRGBA) vecmath.ColorRGBA {
	lightColor := vecmath.RGB(1, 1, 1)

	ambient := lightColor.Scale(ambientStrength)

	lightDir := lightPosition.Sub(pos).Normalize()
	diff := math.Max(normal.Dot(lightDir), 0)
	diffuse := lightColor.Scale(diff)

	viewDir := cameraPos.Sub(pos).Normalize()
	reflectDir := lightDir.Reflect(normal)
	spec := math.Pow(math.Max(viewDir.Dot(reflectDir), 0), shininess)
	specular := lightColor.Scale(specularStrength * spec)

	lighting := ambient.Add(diffuse).Add(specular)
	return base.Mul(vecmath.ColorRGBA{R: lighting.R, G: lighting.G, B: lighting.B, A: base.A})
}
