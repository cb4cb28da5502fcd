package assessment

// Results are cached only once computed for a finalized session, since a
// finalized session accepts no more answers.

func (s *Service) getCachedResult(sessionID string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[sessionID]
	return result, ok
}

func (s *Service) setCachedResult(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.SessionID] = result
}
