package split

// hashCombine implements the exact combiner spec.md pins the
// splitter's routing to: seed ^ (x + 0x9e3779b9 + (seed<<6) +
// (seed>>2)), the Boost-style combiner the original C++ splitter
// builds on via boost::hash_combine. Cross-shard agreement depends on
// every implementation using this formula verbatim; do not swap in a
// different hash here even though github.com/cespare/xxhash/v2 is
// already a dependency of this module for other purposes.
func hashCombine(seed, x uint64) uint64 {
	return seed ^ (x + 0x9e3779b9 + (seed << 6) + (seed >> 2))
}

// hashInt returns the routing hash for an integer term id.
func hashInt(id int64) uint64 {
	return hashCombine(0, uint64(id))
}

// hashBytes returns the routing hash for a string term id, combining
// one byte at a time starting from seed 0.
func hashBytes(id []byte) uint64 {
	var seed uint64
	for _, b := range id {
		seed = hashCombine(seed, uint64(b))
	}
	return seed
}

// BucketInt returns the output bucket in [0, n) for id under field's
// term ordering, identical across platforms and shards.
func BucketInt(id int64, n int) int {
	return int(hashInt(id) % uint64(n))
}

// BucketString is the string-id counterpart of BucketInt.
func BucketString(id []byte, n int) int {
	return int(hashBytes(id) % uint64(n))
}
