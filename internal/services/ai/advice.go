package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

// User-facing fallbacks. The provider error itself is never shown.
const (
	NotAvailableMessage     = "माफ़ी क्षमा करें, अभी जानकारी उपलब्ध नहीं है। कृपया बाद में प्रयास करें।"
	TechnicalFailureMessage = "तकनीकी समस्या के कारण अभी टिप्स नहीं मिल पा रहे हैं। कृपया अपना इंटरनेट चेक करें और दोबारा कोशिश करें।"
)

type AdviceRequest struct {
	SessionID   uuid.UUID
	Category    models.HealthCategory
	Details     models.UserDetails
	CustomQuery string
}

// GenerateAdvice builds the prompt, calls the provider once and always returns
// text to render: the Markdown advice, or one of the fixed fallbacks.
func (s *Service) GenerateAdvice(ctx context.Context, req AdviceRequest) string {
	prompt := BuildPrompt(req.Category, req.Category.Label(), req.Details, req.CustomQuery)
	if s.temperature != nil {
		prompt.Temperature = *s.temperature
	}

	text, _, err := s.Generate(ctx, req.SessionID, string(req.Category), prompt)
	if err != nil {
		logging.Error("Advice generation failed", map[string]interface{}{
			"session_id": req.SessionID.String(),
			"category":   string(req.Category),
			"error":      err.Error(),
		})
		return FallbackMessage(err)
	}
	return text
}

// FallbackMessage maps a generation error to the text shown in place of advice.
func FallbackMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrSafetyViolation):
		return NotAvailableMessage
	default:
		return TechnicalFailureMessage
	}
}

func stubAdvice(topic string) string {
	return fmt.Sprintf(`## परिचय

यह "%s" के लिए एक नमूना मार्गदर्शिका है।

## समस्या को समझें

सामान्य जानकारी।

## विस्तृत सुझाव

1. 💧 पर्याप्त पानी पिएं।
2. 🧘 रोज़ योग करें।
3. 🥗 संतुलित आहार लें।
4. 😴 पूरी नींद लें।
5. 🚶 रोज़ टहलें।

## घरेलू नुस्खा

गुनगुना पानी और शहद।

## दिनचर्या सुझाव

सुबह जल्दी उठें।

## निष्कर्ष

गंभीर लक्षणों में डॉक्टर से सलाह लें।
`, topic)
}
