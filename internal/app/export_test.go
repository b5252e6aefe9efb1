package app

// SetRandomSource replaces the random id source of s.
func SetRandomSource(s *CatalogService, intn func(n int64) int64) {
	s.intn = intn
}
