package state

import (
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		DefaultCover: []byte(`<svg viewBox="0 0 600 800" xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="600" height="800" fill="#1e1e24"/>
  <rect x="30" y="30" width="540" height="740" fill="none" stroke="#c9a227" stroke-width="3"/>
  <rect x="45" y="45" width="510" height="710" fill="none" stroke="#c9a227" stroke-width="1"/>
  <path d="
    M150 400 H260
    C275 370, 325 370, 340 400
    H450

    M300 400
    C285 385, 285 360, 300 345
    C315 360, 315 385, 300 400
  "
  fill="none" stroke="#c9a227" stroke-width="2"/>
  <circle cx="300" cy="430" r="6" fill="#c9a227"/>
</svg>`),
		DefaultFavicon: []byte(`<svg viewBox="0 0 64 64" xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="64" height="64" rx="10" fill="#1e1e24"/>
  <path d="M14 16 H30 C34 16 32 20 32 22 V50 C32 46 28 46 24 46 H14 Z" fill="#f4f1e8"/>
  <path d="M50 16 H34 C30 16 32 20 32 22 V50 C32 46 36 46 40 46 H50 Z" fill="#e6dfcc"/>
</svg>`),
	}
}
