package driven

import "context"

type credentialKey struct{}

// WithCredential returns a context carrying a per-run credential. Remote
// connectors honour it over their configured credential for every request
// issued under the returned context, which keeps the orchestrator free of
// transport concerns.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential)
}

// CredentialFromContext returns the per-run credential, if one is set.
func CredentialFromContext(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(credentialKey{}).(string)
	return credential, ok && credential != ""
}
