package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Digest returns the hex encoded sha256 of the artifact bytes.
func Digest(a *Artifact) (string, error) {
	in, err := a.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	h := sha256.New()
	if _, err := io.Copy(h, in); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
