package domain

import (
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/shell"
)

// miedemaStep implements one iteration of original_source/egfrd.py's
// miedema_algorithm: given one neighboring shell, shrink whichever of
// (dr, dzLeft, dzRight) it intrudes on least, keeping the straddling
// cylinder for an InteractionSingle as large as possible while staying
// clear of every existing shell. cylindrical selects which of the two
// surface-distance conventions of the original (planar vs cylindrical
// surface) applies; particleDistance is the signed offset of the
// particle from the projected point along orientation.
func miedemaStep(box geom.Box, shellPos geom.Vec3, shellSize float64, projectedPoint, orientation geom.Vec3,
	dr, dzLeft, dzRight float64, cylindrical bool, particleDistance float64) (float64, float64, float64) {

	shellPos = box.CyclicTranspose(shellPos, projectedPoint)
	shellVector := geom.Sub(shellPos, projectedPoint)

	zi := geom.Dot(shellVector, orientation)
	zVector := geom.Scale(zi, orientation)
	rVector := geom.Sub(shellVector, zVector)
	ri := geom.Norm(rVector)

	drI := ri - shellSize

	if cylindrical {
		drI -= particleDistance
		dr -= particleDistance
	} else {
		dzRight -= particleDistance
	}

	if zi < 0 {
		dzLeftI := -zi - shellSize
		if dzLeftI < dzLeft && drI < dr {
			if dzLeftI > drI {
				dzLeft = dzLeftI
			} else {
				dr = drI
			}
		}
	} else {
		dzRightI := zi - shellSize
		if !cylindrical {
			dzRightI -= particleDistance
		}
		if dzRightI < dzRight && drI < dr {
			if dzRightI > drI {
				dzRight = dzRightI
			} else {
				dr = drI
			}
		}
	}

	if cylindrical {
		dr += particleDistance
	} else {
		dzRight += particleDistance
	}

	return dr, dzLeft, dzRight
}

// calculateMaxCylinder runs Miedema's algorithm against every shell within
// reach of the candidate straddling cylinder, shrinking (dr, dzLeft,
// dzRight) as needed so the InteractionSingle's domain stays clear of
// every other live shell (spec.md §4.8). maxSearch bounds how far out
// neighbors are considered, matching the original's search over the
// sphere_container sized to the current max shell size.
func calculateMaxCylinder(box geom.Box, sc *shell.Container, reg *Registry, ownShell shell.Id,
	projectedPoint, orientation geom.Vec3, dr, dzLeft, dzRight float64,
	cylindrical bool, particleDistance, maxSearch float64) (float64, float64, float64) {

	searchCenter := geom.Add(projectedPoint, geom.Scale((dzRight-dzLeft)/2, orientation))
	neighbors := sc.NeighborsWithin(searchCenter, maxSearch, map[shell.Id]bool{ownShell: true})

	for _, n := range neighbors {
		sh, ok := sc.Get(n.Id)
		if !ok {
			continue
		}
		if _, ok := reg.Owner(n.Id); !ok {
			continue
		}
		dr, dzLeft, dzRight = miedemaStep(box, sh.Center, sh.Size(), projectedPoint, orientation, dr, dzLeft, dzRight, cylindrical, particleDistance)
	}

	if dr < 0 {
		dr = 0
	}
	if dzLeft < 0 {
		dzLeft = 0
	}
	if dzRight < 0 {
		dzRight = 0
	}
	return dr, dzLeft, dzRight
}

// minCylinder is the smallest admissible straddling cylinder: just large
// enough to contain the particle itself on both sides of the surface.
func minCylinder(radius float64) (dr, dzLeft, dzRight float64) {
	return radius, radius, radius
}
