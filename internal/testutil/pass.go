package testutil

// FixedPassGenerator returns the same pass token every time.
//
// This enables deterministic harness execution and golden report
// comparison: the same scenario with the same token produces
// byte-identical canonical reports.
//
// The token is typically set in the scenario YAML:
//
//	pass_token: "test-pass-00000000-0000-0000-0000-000000000001"
//
// If token is empty, Generate returns "test-pass-default".
//
// Thread-safety: stateless and safe for concurrent use.
type FixedPassGenerator struct {
	token string
}

// NewFixedPassGenerator creates a fixed pass-token generator.
func NewFixedPassGenerator(token string) *FixedPassGenerator {
	if token == "" {
		token = "test-pass-default"
	}
	return &FixedPassGenerator{token: token}
}

// Generate returns the fixed token.
//
// Implements sentinel.PassTokenGenerator.
func (g *FixedPassGenerator) Generate() string {
	return g.token
}
