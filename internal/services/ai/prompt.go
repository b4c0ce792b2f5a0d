package ai

import (
	"fmt"
	"strings"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

// DefaultTemperature is the sampling temperature used for advice.
const DefaultTemperature = 0.5

// RefusalMessage is returned verbatim by the model for gibberish or non-health topics.
const RefusalMessage = "माफ़ कीजिये, मैं केवल स्वास्थ्य (Health) से जुड़ी समस्याओं में मदद कर सकता हूँ। कृपया कोई बीमारी या लक्षण बताएं।"

const systemInstruction = `You are "Swasthya Saathi", a knowledgeable and caring Indian health expert.

Target Audience: Hindi speaking Indians (Rural + Urban).

*** CRITICAL INSTRUCTION: VALIDATION FIRST ***
If input is Gibberish OR Unrelated to Health, respond with ONLY:
"` + RefusalMessage + `"

Task: Provide comprehensive, detailed, and practical health tips.

Guidelines:
1. Language: STRICTLY HINDI (Simple, warm).
2. Depth: Detailed explanations of "Why" and "How".
3. Focus: Ayurvedic remedies, lifestyle, yoga, and dietary habits.

Structure:
- **Introduction**
- **Understanding the Issue**
- **Detailed Tips (5-7 Points with Emojis)**
- **Home Remedy (Gharelu Nuskha)**
- **Daily Routine Suggestion**
- **Conclusion**

SAFETY:
- NO Allopathic prescriptions.
- Advise doctor consultation for severe symptoms.
- Disclaimer auto-added via UI, but mention in text naturally.`

// Prompt is everything sent to the text-generation endpoint for one submission.
type Prompt struct {
	Topic       string
	System      string
	User        string
	Temperature float64
}

// SystemInstruction returns the fixed system-role text.
func SystemInstruction() string {
	return systemInstruction
}

// ResolveTopic picks the free-text query for the custom category and the
// category label otherwise.
func ResolveTopic(category models.HealthCategory, label, customQuery string) string {
	if category.IsCustom() && customQuery != "" {
		return customQuery
	}
	return label
}

// ContextFragments renders the optional age and gender fragments. Blank
// fields are left out entirely.
func ContextFragments(details models.UserDetails) string {
	parts := make([]string, 0, 2)
	if details.Age != "" {
		parts = append(parts, fmt.Sprintf("User Age: %s.", details.Age))
	}
	if details.Gender != "" {
		parts = append(parts, fmt.Sprintf("User Gender: %s.", details.Gender))
	}
	return strings.Join(parts, " ")
}

// BuildPrompt composes the instruction payload for one advice request.
func BuildPrompt(category models.HealthCategory, label string, details models.UserDetails, customQuery string) Prompt {
	topic := ResolveTopic(category, label, customQuery)
	user := fmt.Sprintf("Topic/Query: \"%s\". \nContext: %s. Provide a full detailed guide in Hindi.", topic, ContextFragments(details))

	return Prompt{
		Topic:       topic,
		System:      systemInstruction,
		User:        user,
		Temperature: DefaultTemperature,
	}
}
