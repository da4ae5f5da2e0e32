package emit

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"mooagg/ir"
)

// Pipeline is the compiled artifact: stages in statement order
type Pipeline []Doc

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("emit: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Assemble emits one stage per statement node, keeping their order
func Assemble(e *Emitter, nodes []*ir.Node) (Pipeline, error) {
	p := make(Pipeline, 0, len(nodes))
	for i, n := range nodes {
		if _, ok := n.Label(); !ok {
			return nil, fmt.Errorf("statement %d: %s node has no target field", i+1, n.Kind())
		}
		out, err := e.Emit(n)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		stage, ok := out.(Doc)
		if !ok {
			return nil, fmt.Errorf("statement %d: %s node emitted %T, not a stage", i+1, n.Kind(), out)
		}
		p = append(p, stage)
	}
	return p, nil
}

// Canonical returns the canonical CBOR encoding of the pipeline
func (p Pipeline) Canonical() ([]byte, error) {
	return cborEncMode.Marshal([]Doc(p))
}

// Fingerprint returns the hex BLAKE2b-256 digest of the canonical encoding.
// Equal pipelines have equal fingerprints.
func (p Pipeline) Fingerprint() (string, error) {
	data, err := p.Canonical()
	if err != nil {
		return "", fmt.Errorf("emit: encode pipeline: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Stages returns the pipeline as plain values, the shape decoders and the
// engine expect
func (p Pipeline) Stages() []any {
	out := make([]any, len(p))
	for i, s := range p {
		out[i] = s
	}
	return out
}
