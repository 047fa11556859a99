package shell

// ResolveEnvironment exposes resolveEnvironment for tests.
func ResolveEnvironment(sysEnv []string, overlay map[string]string, prependPath []string) []string {
	return resolveEnvironment(sysEnv, overlay, prependPath)
}

// WithEnviron replaces the inherited environment source.
func (e *Executor) WithEnviron(fn func() []string) *Executor {
	e.environ = fn
	return e
}
