package field

// Field is the procedural-generation source: a seeded, pure mapping from a
// string key to a value in [0,1). Identical keys always produce identical
// values, across restarts and platforms, so unmodified cells can be evicted
// and recomputed freely.
type Field struct {
	seed int64
}

func New(seed int64) *Field {
	return &Field{seed: seed}
}

// Value returns the field value for key in [0,1).
func (f *Field) Value(key string) float64 {
	// FNV-1a over the key, folded with the seed, then finalized with a
	// splitmix-style avalanche. 53 mantissa bits give the float.
	const (
		offset64 = 0xcbf29ce484222325
		prime64  = 0x100000001b3
	)
	h := uint64(offset64)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= prime64
	}
	h ^= uint64(f.seed) * 0x9e3779b97f4a7c15
	h = mix64(h)
	return float64(h>>11) / (1 << 53)
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
