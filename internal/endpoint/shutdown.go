package endpoint

// Shutdown stops the endpoint: it closes the listener and every connection,
// then waits for the accept loop and all receive loops to return. Only the
// first call does anything. Messages already queued can still be polled.
func (e *Endpoint) Shutdown() {
	e.stopOnce.Do(func() {
		e.lifeMu.Lock()
		defer e.lifeMu.Unlock()

		e.state.Store(int32(StateShuttingDown))
		e.cancel()

		e.mu.Lock()
		listening, client := e.listening, e.client
		e.listening = false
		e.mu.Unlock()

		if listening {
			if err := e.cfg.Network.Close(); err != nil {
				e.Logf("close listener: %v", err)
			}
		}
		if client != nil {
			client.close()
		}
		e.peers.closeAll()

		e.wg.Wait()
		e.state.Store(int32(StateStopped))
		e.Logf("stopped")
	})
}
