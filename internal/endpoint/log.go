package endpoint

// Logf prints debug chatter; it is silent unless Config.Debug is set.
func (e *Endpoint) Logf(format string, args ...any) {
	if !e.cfg.Debug {
		return
	}
	e.cfg.Logger.Printf("[%s] "+format, append([]any{e.cfg.Role}, args...)...)
}

func (e *Endpoint) errorf(format string, args ...any) {
	e.cfg.Logger.Printf("[%s] error: "+format, append([]any{e.cfg.Role}, args...)...)
}
