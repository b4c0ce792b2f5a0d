package models

import (
	"errors"
	"fmt"
)

// HealthCategory is the closed set of topics a user can pick.
type HealthCategory string

const (
	CategoryWeightLoss    HealthCategory = "weight_loss"
	CategoryWeightGain    HealthCategory = "weight_gain"
	CategoryStomachIssues HealthCategory = "stomach_issues"
	CategoryFatigue       HealthCategory = "fatigue"
	CategoryHairCare      HealthCategory = "hair_care"
	CategorySkinCare      HealthCategory = "skin_care"
	CategorySleep         HealthCategory = "sleep"
	CategoryImmunity      HealthCategory = "immunity"
	CategoryMensHealth    HealthCategory = "mens_health"
	CategoryWomensHealth  HealthCategory = "womens_health"
	// CategoryCustom switches the form into free-text mode.
	CategoryCustom HealthCategory = "custom"
)

var ErrUnknownCategory = errors.New("unknown health category")

type CategoryInfo struct {
	ID          HealthCategory `json:"id"`
	Label       string         `json:"label"`
	Icon        IconName       `json:"icon"`
	Description string         `json:"description"`
}

// Categories is the catalog in display order.
var Categories = []CategoryInfo{
	{ID: CategoryCustom, Label: "अपनी समस्या लिखें", Icon: IconMessageCircle, Description: "यहाँ लिखकर सवाल पूछें"},
	{ID: CategoryWeightLoss, Label: "वजन कम करें", Icon: IconScale, Description: "मोटापा घटाने के घरेलू उपाय"},
	{ID: CategoryWeightGain, Label: "वजन बढ़ाएं", Icon: IconUtensils, Description: "दुबलेपन से छुटकारा पाएं"},
	{ID: CategoryStomachIssues, Label: "पेट की समस्या", Icon: IconFlame, Description: "गैस, कब्ज और एसिडिटी"},
	{ID: CategoryFatigue, Label: "कमजोरी और थकान", Icon: IconBatteryLow, Description: "ऊर्जा और ताकत बढ़ाएं"},
	{ID: CategoryHairCare, Label: "बालों की देखभाल", Icon: IconScissors, Description: "झड़ना रोकें, डैंड्रफ हटाएँ"},
	{ID: CategorySkinCare, Label: "स्किन केयर", Icon: IconSparkles, Description: "दाग-धब्बे और ग्लोइंग स्किन"},
	{ID: CategorySleep, Label: "नींद की समस्या", Icon: IconMoon, Description: "अच्छी और गहरी नींद के लिए"},
	{ID: CategoryImmunity, Label: "इम्यूनिटी बढ़ाएं", Icon: IconShieldCheck, Description: "रोग प्रतिरोधक क्षमता"},
	{ID: CategoryMensHealth, Label: "पुरुष स्वास्थ्य", Icon: IconUser, Description: "सामान्य स्वास्थ्य जानकारी"},
	{ID: CategoryWomensHealth, Label: "महिला स्वास्थ्य", Icon: IconUserCheck, Description: "सामान्य स्वास्थ्य जानकारी"},
}

// LookupCategory returns the catalog entry for id.
func LookupCategory(id HealthCategory) (CategoryInfo, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryInfo{}, false
}

// ParseCategory converts a raw identifier into a HealthCategory.
func ParseCategory(raw string) (HealthCategory, error) {
	id := HealthCategory(raw)
	if _, ok := LookupCategory(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return id, nil
}

// Label returns the Hindi label, or an empty string for unknown ids.
func (c HealthCategory) Label() string {
	info, _ := LookupCategory(c)
	return info.Label
}

func (c HealthCategory) IsCustom() bool {
	return c == CategoryCustom
}
