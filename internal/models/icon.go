package models

// IconName identifies a category glyph.
type IconName string

const (
	IconScale         IconName = "Scale"
	IconUtensils      IconName = "Utensils"
	IconFlame         IconName = "Flame"
	IconBatteryLow    IconName = "BatteryLow"
	IconScissors      IconName = "Scissors"
	IconSparkles      IconName = "Sparkles"
	IconMoon          IconName = "Moon"
	IconShieldCheck   IconName = "ShieldCheck"
	IconUser          IconName = "User"
	IconUserCheck     IconName = "UserCheck"
	IconMessageCircle IconName = "MessageCircle"
)

var iconGlyphs = map[IconName]string{
	IconScale:         "⚖️",
	IconUtensils:      "🍽️",
	IconFlame:         "🔥",
	IconBatteryLow:    "🪫",
	IconScissors:      "✂️",
	IconSparkles:      "✨",
	IconMoon:          "🌙",
	IconShieldCheck:   "🛡️",
	IconUser:          "👤",
	IconUserCheck:     "🙋‍♀️",
	IconMessageCircle: "💬",
}

// Glyph returns the glyph for name. Unknown names get the Sparkles glyph.
func Glyph(name IconName) string {
	if g, ok := iconGlyphs[name]; ok {
		return g
	}
	return iconGlyphs[IconSparkles]
}
