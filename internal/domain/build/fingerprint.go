package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one rendered content item. A cached render is
// reusable only while every input hash is unchanged.
type Fingerprint struct {
	ContentHash  string
	RendererHash string
	RenderHash   string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte{0})
	h.Write([]byte(f.RendererHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func NewFingerprint(raw []byte, rendererHash string) Fingerprint {
	f := Fingerprint{
		ContentHash:  HashBytes(raw),
		RendererHash: rendererHash,
	}
	f.ComputeRenderHash()
	return f
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
