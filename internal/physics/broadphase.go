package physics

// bodyPair is an unordered candidate pair from the broadphase.
type bodyPair struct {
	a, b *RigidBody
}

// pairKey identifies a pair across steps for enter/exit bookkeeping.
type pairKey struct {
	a, b BodyID
}

func makePairKey(a, b *RigidBody) pairKey {
	if a.id > b.id {
		a, b = b, a
	}
	return pairKey{a: a.id, b: b.id}
}

// broadphasePairs runs the O(n^2) AABB overlap pass over the body list.
// Quadratic pairing is fine here: the body count ceiling is bounded by
// configuration (MaxBodies). Pairs are skipped when both bodies are static,
// both are asleep, or layer/mask/group filtering rules them out. The result
// is capped at maxPairs.
func broadphasePairs(bodies []*RigidBody, maxPairs int, out []bodyPair) []bodyPair {
	out = out[:0]

	bounds := make([]AABB, len(bodies))
	for i, b := range bodies {
		bounds[i] = b.worldBounds()
	}

	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]

			if a.bodyType != BodyDynamic && b.bodyType != BodyDynamic {
				continue
			}
			if a.sleeping && b.sleeping {
				continue
			}
			if !shouldCollide(a, b) {
				continue
			}
			if !bounds[i].Intersects(bounds[j]) {
				continue
			}

			out = append(out, bodyPair{a: a, b: b})
			if maxPairs > 0 && len(out) >= maxPairs {
				return out
			}
		}
	}
	return out
}
