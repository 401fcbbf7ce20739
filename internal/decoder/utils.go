package decoder

import (
	"errors"
	"fmt"

	"github.com/faanross/simulacra_png/internal/container"
	"github.com/faanross/simulacra_png/internal/embed"
	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// Probe reads and validates the container header without a password.
func Probe(pixels []byte) (*container.Container, error) {
	header, err := embed.Read(pixels, 0, wire.HEADER_SIZE)
	if err != nil {
		return nil, err
	}
	return container.ParseHeader(header)
}

// TryPasswords attempts decryption with each password in turn and returns
// the first one that authenticates. The container is extracted once; a
// carrier without a container fails immediately. Only Authentication
// failures move on to the next password. Any other failure means the
// password was accepted and the data is damaged, and is returned as is.
func TryPasswords(pixels []byte, passwords []string) (string, *ExtractedMessage, error) {
	if len(passwords) == 0 {
		return "", nil, errors.New("decoder.TryPasswords: no passwords to try")
	}

	c, err := NewSecureStegoDecoder(pixels, nil).ExtractContainer()
	if err != nil {
		return "", nil, err
	}

	var lastErr error
	for _, pass := range passwords {
		result, err := NewSecureStegoDecoder(pixels, []byte(pass)).DecryptPayload(c)
		if err == nil {
			return pass, result, nil
		}
		if !stegerr.IsKind(err, stegerr.KindAuthentication) {
			return "", nil, err
		}
		lastErr = err
	}

	return "", nil, stegerr.Wrap(stegerr.KindAuthentication, "decoder.TryPasswords",
		fmt.Sprintf("all %d passwords failed", len(passwords)), lastErr)
}
