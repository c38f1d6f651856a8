package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CollisionResult describes a single contact between two shapes. Normal
// points from A toward B.
type CollisionResult struct {
	Normal      mgl32.Vec3
	Penetration float32
	PointOnA    mgl32.Vec3
	PointOnB    mgl32.Vec3
}

// flipped returns the result with A and B exchanged.
func (r CollisionResult) flipped() CollisionResult {
	return CollisionResult{
		Normal:      r.Normal.Mul(-1),
		Penetration: r.Penetration,
		PointOnA:    r.PointOnB,
		PointOnB:    r.PointOnA,
	}
}

// posedShape is a leaf shape with a world pose, the unit narrowphase
// dispatch works on. Compound shapes are flattened into these.
type posedShape struct {
	shape Shape
	pos   mgl32.Vec3
	rot   mgl32.Quat
}

// worldShapes flattens a body's attachments (expanding compounds) into
// world-posed leaf shapes.
func worldShapes(b *RigidBody) []posedShape {
	out := make([]posedShape, 0, len(b.shapes))
	for _, att := range b.shapes {
		pos := b.Position.Add(b.Rotation.Rotate(att.Offset))
		rot := b.Rotation.Mul(att.Rotation)
		if comp, ok := att.Shape.(*CompoundShape); ok {
			out = comp.expand(pos, rot, out)
			continue
		}
		out = append(out, posedShape{shape: att.Shape, pos: pos, rot: rot})
	}
	return out
}

// collideBodies runs narrowphase over every leaf shape pair of two bodies
// and returns the deepest contact found.
func collideBodies(a, b *RigidBody) (CollisionResult, bool) {
	shapesA := worldShapes(a)
	shapesB := worldShapes(b)

	var best CollisionResult
	found := false
	for _, sa := range shapesA {
		for _, sb := range shapesB {
			res, ok := collideShapes(sa, sb)
			if ok && (!found || res.Penetration > best.Penetration) {
				best = res
				found = true
			}
		}
	}
	return best, found
}

// collideShapes dispatches on the shape type pair. Sphere and capsule pairs
// get analytic tests; everything else falls back to an AABB overlap resolve.
// Triangle meshes and height fields produce no discrete contacts - they are
// query/sweep geometry only.
func collideShapes(a, b posedShape) (CollisionResult, bool) {
	ta, tb := a.shape.Type(), b.shape.Type()
	if ta == ShapeTriangleMesh || ta == ShapeHeightField ||
		tb == ShapeTriangleMesh || tb == ShapeHeightField {
		return CollisionResult{}, false
	}

	switch {
	case ta == ShapeSphere && tb == ShapeSphere:
		sa := a.shape.(*SphereShape)
		sb := b.shape.(*SphereShape)
		return collideSphereSphere(a.pos, sa.Radius, b.pos, sb.Radius)

	case ta == ShapeSphere && tb == ShapeCapsule:
		sa := a.shape.(*SphereShape)
		cb := b.shape.(*CapsuleShape)
		return collideSphereCapsule(a.pos, sa.Radius, b, cb)

	case ta == ShapeCapsule && tb == ShapeSphere:
		ca := a.shape.(*CapsuleShape)
		sb := b.shape.(*SphereShape)
		res, ok := collideSphereCapsule(b.pos, sb.Radius, a, ca)
		return res.flipped(), ok

	case ta == ShapeSphere && tb == ShapeBox:
		sa := a.shape.(*SphereShape)
		bb := b.shape.(*BoxShape)
		return collideSphereBox(a.pos, sa.Radius, b, bb)

	case ta == ShapeBox && tb == ShapeSphere:
		ba := a.shape.(*BoxShape)
		sb := b.shape.(*SphereShape)
		res, ok := collideSphereBox(b.pos, sb.Radius, a, ba)
		return res.flipped(), ok

	case ta == ShapeCapsule && tb == ShapeCapsule:
		ca := a.shape.(*CapsuleShape)
		cb := b.shape.(*CapsuleShape)
		return collideCapsuleCapsule(a, ca, b, cb)
	}

	return collideBoundsFallback(a, b)
}

// collideSphereSphere produces the contact between two spheres.
func collideSphereSphere(pa mgl32.Vec3, ra float32, pb mgl32.Vec3, rb float32) (CollisionResult, bool) {
	diff := pb.Sub(pa)
	dist := diff.Len()
	minDist := ra + rb
	if dist >= minDist {
		return CollisionResult{}, false
	}

	// Coincident centers: pick an arbitrary separation axis.
	normal := safeNormalize(diff, mgl32.Vec3{0, 1, 0})
	return CollisionResult{
		Normal:      normal,
		Penetration: minDist - dist,
		PointOnA:    pa.Add(normal.Mul(ra)),
		PointOnB:    pb.Sub(normal.Mul(rb)),
	}, true
}

// collideSphereCapsule reduces to sphere vs the closest point on the
// capsule's core segment.
func collideSphereCapsule(spherePos mgl32.Vec3, radius float32, capsulePose posedShape, capsule *CapsuleShape) (CollisionResult, bool) {
	segA, segB := capsule.segment(capsulePose.pos, capsulePose.rot)
	closest := closestPointOnSegment(spherePos, segA, segB)
	return collideSphereSphere(spherePos, radius, closest, capsule.Radius)
}

// collideSphereBox clamps the sphere center into the box's local bounds to
// find the closest surface point.
func collideSphereBox(spherePos mgl32.Vec3, radius float32, boxPose posedShape, box *BoxShape) (CollisionResult, bool) {
	local := boxPose.rot.Conjugate().Rotate(spherePos.Sub(boxPose.pos))
	he := box.HalfExtents

	clamped := mgl32.Vec3{
		mgl32.Clamp(local.X(), -he.X(), he.X()),
		mgl32.Clamp(local.Y(), -he.Y(), he.Y()),
		mgl32.Clamp(local.Z(), -he.Z(), he.Z()),
	}

	delta := local.Sub(clamped)
	distSq := delta.Dot(delta)
	if distSq >= radius*radius {
		return CollisionResult{}, false
	}

	if distSq > 1e-9 {
		// Sphere center outside the box.
		dist := delta.Len()
		localNormal := delta.Mul(1 / dist)
		worldNormal := boxPose.rot.Rotate(localNormal).Mul(-1) // A(sphere) -> B(box)
		pointOnB := boxPose.pos.Add(boxPose.rot.Rotate(clamped))
		return CollisionResult{
			Normal:      worldNormal,
			Penetration: radius - dist,
			PointOnA:    spherePos.Add(worldNormal.Mul(radius)),
			PointOnB:    pointOnB,
		}, true
	}

	// Center inside the box: push out along the face with least depth.
	depthX := he.X() - abs32(local.X())
	depthY := he.Y() - abs32(local.Y())
	depthZ := he.Z() - abs32(local.Z())
	localNormal := mgl32.Vec3{sign32(local.X()), 0, 0}
	depth := depthX
	if depthY < depth {
		depth = depthY
		localNormal = mgl32.Vec3{0, sign32(local.Y()), 0}
	}
	if depthZ < depth {
		depth = depthZ
		localNormal = mgl32.Vec3{0, 0, sign32(local.Z())}
	}
	worldNormal := boxPose.rot.Rotate(localNormal).Mul(-1)
	return CollisionResult{
		Normal:      worldNormal,
		Penetration: depth + radius,
		PointOnA:    spherePos.Add(worldNormal.Mul(radius)),
		PointOnB:    spherePos,
	}, true
}

// collideCapsuleCapsule reduces to sphere vs sphere at the closest points
// between the two core segments.
func collideCapsuleCapsule(poseA posedShape, capA *CapsuleShape, poseB posedShape, capB *CapsuleShape) (CollisionResult, bool) {
	a0, a1 := capA.segment(poseA.pos, poseA.rot)
	b0, b1 := capB.segment(poseB.pos, poseB.rot)
	pa, pb := closestPointsBetweenSegments(a0, a1, b0, b1)
	return collideSphereSphere(pa, capA.Radius, pb, capB.Radius)
}

// collideBoundsFallback resolves box/cylinder/hull pairs by world-AABB
// minimum translation, the coarse path for shapes without an analytic test.
func collideBoundsFallback(a, b posedShape) (CollisionResult, bool) {
	boxA := a.shape.LocalBounds().Transformed(a.pos, a.rot)
	boxB := b.shape.LocalBounds().Transformed(b.pos, b.rot)

	push := boxA.Resolve(boxB)
	pushLen := push.Len()
	if pushLen < 1e-6 {
		return CollisionResult{}, false
	}

	// push moves A out of B, so the A->B normal is its opposite.
	normal := push.Mul(-1 / pushLen)
	return CollisionResult{
		Normal:      normal,
		Penetration: pushLen,
		PointOnA:    estimateContactPoint(boxA.Center(), boxA.HalfExtents(), normal.Mul(-1)),
		PointOnB:    estimateContactPoint(boxB.Center(), boxB.HalfExtents(), normal),
	}, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
