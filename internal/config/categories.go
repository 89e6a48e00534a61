package config

// CategoryWeights orders command categories in help output; lower comes first.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎲 Gameplay":     20,
	"📊 Insights":     40,
	"⚙️ Settings":    50,
	"🛠️ Maintenance": 60,
}
