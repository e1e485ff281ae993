package config

// Delay bounds for /setdelay and /karaoke, in seconds.
const (
	MinDelay      = 0.1
	MaxDelay      = 10.0
	FallbackDelay = 2.0
)

var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎤 Karaoke":      10,
	"⚙️ Settings":    50,
	"🛠️ Maintenance": 60,
}
