// Package sig derives stable cache keys from call signatures.
//
// A signature is (funcID, positional args, named args). The canonical
// representation is encoded with CBOR in RFC 8949 Core Deterministic mode
// (map keys sorted, shortest-form integers), so equal signatures always
// produce byte-identical key material regardless of how the caller's value
// codec behaves. The material is hashed with SHA-256 and hex-encoded,
// which keeps keys fixed-length and filesystem-safe.
package sig

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Deriver turns call arguments into cache keys. Construct with New once
// per wrapped function; Derive is safe for concurrent use.
type Deriver struct {
	enc        cbor.EncMode
	funcID     string
	paramNames []string
	isMethod   bool
}

func New(funcID string, paramNames []string, isMethod bool) (*Deriver, error) {
	if funcID == "" {
		return nil, fmt.Errorf("sig: funcID is required")
	}
	eo := cbor.CoreDetEncOptions()
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		return nil, err
	}
	return &Deriver{
		enc:        em,
		funcID:     funcID,
		paramNames: paramNames,
		isMethod:   isMethod,
	}, nil
}

// Derive computes the key for one call.
//
// With paramNames set, positional arguments are bound to their parameter
// names and merged with named ones into a single map, so positional and
// named spellings of the same call produce the same key. Without
// paramNames, positionals are hashed in order and named args separately
// (deterministic encoding sorts the map keys).
//
// When isMethod is set the first positional argument is the receiver; it
// is excluded from key material since object identity is neither stable
// across restarts nor meaningful to the result.
func (d *Deriver) Derive(args []any, named map[string]any) (string, error) {
	if d.isMethod && len(args) > 0 {
		args = args[1:]
	}

	var material any
	if d.paramNames != nil {
		bound, err := d.bind(args, named)
		if err != nil {
			return "", err
		}
		material = []any{d.funcID, bound}
	} else {
		material = []any{d.funcID, args, named}
	}

	raw, err := d.enc.Marshal(material)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (d *Deriver) bind(args []any, named map[string]any) (map[string]any, error) {
	if len(args) > len(d.paramNames) {
		return nil, fmt.Errorf("sig: %d positional args for %d declared parameters", len(args), len(d.paramNames))
	}
	bound := make(map[string]any, len(args)+len(named))
	for i, a := range args {
		bound[d.paramNames[i]] = a
	}
	for k, v := range named {
		if _, dup := bound[k]; dup {
			return nil, fmt.Errorf("sig: argument %q given positionally and by name", k)
		}
		bound[k] = v
	}
	return bound, nil
}
